package requests_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ridemyway/internal/events"
	"ridemyway/internal/requests"
	"ridemyway/pkg/kafka"
)

type fakeStore struct {
	mu         sync.Mutex
	users      map[string]int64
	rideOwners map[int64]int64
	requests   map[int64]requests.RideRequest
	nextID     int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:      map[string]int64{},
		rideOwners: map[int64]int64{},
		requests:   map[int64]requests.RideRequest{},
	}
}

func (s *fakeStore) addUser(username string, id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[username] = id
}

func (s *fakeStore) addRide(rideID, ownerID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rideOwners[rideID] = ownerID
}

func (s *fakeStore) UserIDByUsername(_ context.Context, username string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.users[username]
	if !ok {
		return 0, requests.ErrUserNotFound
	}
	return id, nil
}

func (s *fakeStore) RideOwnerID(_ context.Context, rideID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ownerID, ok := s.rideOwners[rideID]
	if !ok {
		return 0, requests.ErrRideNotFound
	}
	return ownerID, nil
}

func (s *fakeStore) Insert(_ context.Context, rideID, passengerID int64) (*requests.RideRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var passenger string
	for name, id := range s.users {
		if id == passengerID {
			passenger = name
		}
	}
	s.nextID++
	req := requests.RideRequest{
		ID:          s.nextID,
		RideID:      rideID,
		PassengerID: passengerID,
		Passenger:   passenger,
		Status:      requests.StatusPending,
		CreatedAt:   time.Now().UTC(),
	}
	s.requests[req.ID] = req
	return &req, nil
}

func (s *fakeStore) GetByID(_ context.Context, requestID int64) (*requests.RideRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[requestID]
	if !ok {
		return nil, requests.ErrRequestNotFound
	}
	return &req, nil
}

func (s *fakeStore) ListByRide(_ context.Context, rideID int64) ([]requests.RideRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []requests.RideRequest
	for id := int64(1); id <= s.nextID; id++ {
		if req, ok := s.requests[id]; ok && req.RideID == rideID {
			out = append(out, req)
		}
	}
	return out, nil
}

func (s *fakeStore) ResolveIfPending(_ context.Context, requestID int64, status string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[requestID]
	if !ok || req.Status != requests.StatusPending {
		return false, nil
	}
	req.Status = status
	s.requests[requestID] = req
	return true, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	topics []string
	values []any
}

func (p *fakePublisher) Publish(_ context.Context, topic, _ string, value any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.values = append(p.values, value)
	return nil
}

func (p *fakePublisher) published() ([]string, []any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.topics...), append([]any(nil), p.values...)
}

// alice owns ride 1; bob is another account.
func seededStore() *fakeStore {
	store := newFakeStore()
	store.addUser("alice", 1)
	store.addUser("bobby", 2)
	store.addRide(1, 1)
	return store
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	store := seededStore()
	pub := &fakePublisher{}
	svc := requests.NewService(store, pub)

	req, err := svc.Create(ctx, 1, "bobby")
	require.NoError(t, err)
	assert.Equal(t, requests.StatusPending, req.Status)
	assert.Equal(t, int64(1), req.RideID)
	assert.Equal(t, int64(2), req.PassengerID)
	assert.Equal(t, "bobby", req.Passenger)

	assert.Eventually(t, func() bool {
		topics, _ := pub.published()
		return len(topics) == 1 && topics[0] == kafka.TopicRequestCreated
	}, time.Second, 10*time.Millisecond)
}

func TestService_Create_RideMissing(t *testing.T) {
	svc := requests.NewService(seededStore(), &fakePublisher{})

	_, err := svc.Create(context.Background(), 42, "bobby")
	require.ErrorIs(t, err, requests.ErrRideNotFound)
}

func TestService_Create_OwnAndDuplicateRequestsPermitted(t *testing.T) {
	ctx := context.Background()
	svc := requests.NewService(seededStore(), &fakePublisher{})

	// The owner may request a seat on their own ride.
	_, err := svc.Create(ctx, 1, "alice")
	require.NoError(t, err)

	// The same passenger may request the same ride twice.
	_, err = svc.Create(ctx, 1, "bobby")
	require.NoError(t, err)
	_, err = svc.Create(ctx, 1, "bobby")
	require.NoError(t, err)

	reqs, err := svc.ListForRide(ctx, 1, "alice")
	require.NoError(t, err)
	assert.Len(t, reqs, 3)
}

func TestService_ListForRide_OwnershipGate(t *testing.T) {
	ctx := context.Background()
	svc := requests.NewService(seededStore(), &fakePublisher{})

	_, err := svc.Create(ctx, 1, "bobby")
	require.NoError(t, err)

	t.Run("owner may list", func(t *testing.T) {
		reqs, err := svc.ListForRide(ctx, 1, "alice")
		require.NoError(t, err)
		require.Len(t, reqs, 1)
		assert.Equal(t, "bobby", reqs[0].Passenger)
	})

	t.Run("any other caller is forbidden", func(t *testing.T) {
		_, err := svc.ListForRide(ctx, 1, "bobby")
		require.ErrorIs(t, err, requests.ErrNotRideOwner)
	})

	t.Run("unknown ride", func(t *testing.T) {
		_, err := svc.ListForRide(ctx, 42, "alice")
		require.ErrorIs(t, err, requests.ErrRideNotFound)
	})
}

func TestService_Resolve(t *testing.T) {
	ctx := context.Background()
	store := seededStore()
	pub := &fakePublisher{}
	svc := requests.NewService(store, pub)

	req, err := svc.Create(ctx, 1, "bobby")
	require.NoError(t, err)

	status, err := svc.Resolve(ctx, 1, req.ID, "alice", requests.DecisionAccept)
	require.NoError(t, err)
	assert.Equal(t, requests.StatusAccepted, status)

	got, err := store.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, requests.StatusAccepted, got.Status)

	assert.Eventually(t, func() bool {
		topics, _ := pub.published()
		return len(topics) == 2 // request.created + request.resolved
	}, time.Second, 10*time.Millisecond)

	_, values := pub.published()
	ev, ok := values[1].(events.RequestResolvedEvent)
	require.True(t, ok)
	assert.Equal(t, requests.StatusAccepted, ev.Status)
	assert.Equal(t, int64(1), ev.OwnerID)
	assert.Equal(t, int64(2), ev.PassengerID)
}

func TestService_Resolve_TerminalStateIsFinal(t *testing.T) {
	ctx := context.Background()
	svc := requests.NewService(seededStore(), &fakePublisher{})

	req, err := svc.Create(ctx, 1, "bobby")
	require.NoError(t, err)

	_, err = svc.Resolve(ctx, 1, req.ID, "alice", requests.DecisionAccept)
	require.NoError(t, err)

	// A second resolution must not overwrite the terminal state.
	_, err = svc.Resolve(ctx, 1, req.ID, "alice", requests.DecisionReject)
	require.ErrorIs(t, err, requests.ErrAlreadyResolved)

	reqs, err := svc.ListForRide(ctx, 1, "alice")
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, requests.StatusAccepted, reqs[0].Status)
}

func TestService_Resolve_Failures(t *testing.T) {
	ctx := context.Background()
	svc := requests.NewService(seededStore(), &fakePublisher{})

	req, err := svc.Create(ctx, 1, "bobby")
	require.NoError(t, err)

	tests := []struct {
		name      string
		rideID    int64
		requestID int64
		username  string
		decision  string
		wantErr   error
	}{
		{name: "bad decision", rideID: 1, requestID: req.ID, username: "alice", decision: "maybe", wantErr: requests.ErrInvalidDecision},
		{name: "not the ride owner", rideID: 1, requestID: req.ID, username: "bobby", decision: "accept", wantErr: requests.ErrNotRequestOwner},
		{name: "unknown request", rideID: 1, requestID: 42, username: "alice", decision: "accept", wantErr: requests.ErrRequestNotFound},
		{name: "request belongs to another ride", rideID: 7, requestID: req.ID, username: "alice", decision: "accept", wantErr: requests.ErrRequestNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Resolve(ctx, tt.rideID, tt.requestID, tt.username, tt.decision)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	// None of the failures may have moved the request out of PENDING.
	reqs, err := svc.ListForRide(ctx, 1, "alice")
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, requests.StatusPending, reqs[0].Status)
}
