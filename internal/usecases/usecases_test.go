package usecases_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"icp-hunter/internal/domain"
	"icp-hunter/internal/generator"
	"icp-hunter/internal/pipeline"
	"icp-hunter/internal/simulator"
	"icp-hunter/internal/trophy"
	"icp-hunter/internal/usecases"
)

// MockHuntStore is an in-memory HuntStore without expiry.
type MockHuntStore struct {
	mu       sync.Mutex
	sessions map[string]*usecases.Session
}

func NewMockHuntStore() *MockHuntStore {
	return &MockHuntStore{sessions: make(map[string]*usecases.Session)}
}

func (m *MockHuntStore) Set(id string, s *usecases.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = s
}

func (m *MockHuntStore) Get(id string) (*usecases.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

func (m *MockHuntStore) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	return ok
}

func (m *MockHuntStore) Range(fn func(id string, s *usecases.Session) bool) {
	m.mu.Lock()
	sessions := make(map[string]*usecases.Session, len(m.sessions))
	for id, s := range m.sessions {
		sessions[id] = s
	}
	m.mu.Unlock()
	for id, s := range sessions {
		if !fn(id, s) {
			return
		}
	}
}

func (m *MockHuntStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// MockGateway records charges and returns err when set.
type MockGateway struct {
	mu      sync.Mutex
	err     error
	charges []domain.Charge
}

func (m *MockGateway) Charge(ctx context.Context, c domain.Charge) (domain.Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.charges = append(m.charges, c)
	if m.err != nil {
		return domain.Receipt{}, m.err
	}
	return domain.Receipt{ID: "r-1", Email: c.Email, Tier: c.Tier, Amount: c.Amount}, nil
}

// MockExports keeps exports in a map keyed by file name.
type MockExports struct {
	mu    sync.Mutex
	files map[string][]byte
}

func (m *MockExports) Save(ctx context.Context, fileName string, data []byte) (domain.ExportFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.files == nil {
		m.files = make(map[string][]byte)
	}
	m.files[fileName] = data
	return domain.ExportFile{Token: fileName, FileName: fileName, Size: len(data)}, nil
}

func (m *MockExports) Open(ctx context.Context, token string) (domain.ExportFile, []byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[token]
	if !ok {
		return domain.ExportFile{}, nil, domain.ErrExportNotFound
	}
	return domain.ExportFile{Token: token, FileName: token, Size: len(data)}, data, nil
}

// bufferedTicker delivers enough ticks up front to finish any hunt at once.
type bufferedTicker struct{ c chan time.Time }

func (b bufferedTicker) C() <-chan time.Time { return b.c }
func (b bufferedTicker) Stop()               {}

type instantClock struct{}

func (instantClock) NewTicker(time.Duration) simulator.Ticker {
	c := make(chan time.Time, 400)
	for i := 0; i < cap(c); i++ {
		c <- time.Time{}
	}
	return bufferedTicker{c: c}
}

type stalledClock struct{}

func (stalledClock) NewTicker(time.Duration) simulator.Ticker {
	return bufferedTicker{c: make(chan time.Time)}
}

type fixture struct {
	svc      *usecases.HuntService
	hunts    *MockHuntStore
	gateway  *MockGateway
	exports  *MockExports
	trophies *usecases.TrophyRoomUseCase
}

func newFixture(t *testing.T, clock simulator.Clock) fixture {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	f := fixture{
		hunts:    NewMockHuntStore(),
		gateway:  &MockGateway{},
		exports:  &MockExports{},
		trophies: usecases.NewTrophyRoomUseCase(trophy.NewRoom()),
	}
	f.svc = usecases.NewHuntService(ctx, usecases.HuntDeps{
		Hunts:     f.hunts,
		Generator: generator.NewSeeded(7),
		Clock:     clock,
		Payments:  f.gateway,
		Exports:   f.exports,
		Trophies:  f.trophies,
	})
	return f
}

func waitReady(t *testing.T, svc *usecases.HuntService, id string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		view, err := svc.Progress(context.Background(), id)
		if err != nil {
			t.Fatalf("progress: %v", err)
		}
		if view.Hunt.Status == domain.HuntReady {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("hunt %s never became ready", id)
}

func checkoutSweetSpot(t *testing.T, f fixture) string {
	t.Helper()
	res, err := f.svc.Checkout(context.Background(), usecases.CheckoutRequest{
		Handle: "levelsio", Tier: "sweet_spot", Email: "hunter@example.com",
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	waitReady(t, f.svc, res.Hunt.ID)
	return res.Hunt.ID
}

func TestStartHunt_InvalidHandle_ReturnsValidationError(t *testing.T) {
	// Arrange
	f := newFixture(t, stalledClock{})

	// Act
	_, err := f.svc.StartHunt(context.Background(), usecases.StartRequest{Handle: "ab", Tier: "sweet-spot"})

	// Assert
	if err != domain.ErrHandleInvalid {
		t.Errorf("expected ErrHandleInvalid, got %v", err)
	}
	if f.hunts.Len() != 0 {
		t.Error("no hunt should be created")
	}
}

func TestStartHunt_SweetSpot_ContinuesToCheckout(t *testing.T) {
	// Arrange
	f := newFixture(t, stalledClock{})

	// Act
	res, err := f.svc.StartHunt(context.Background(), usecases.StartRequest{Handle: "@levelsio", Tier: "sweet-spot"})

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Next != usecases.NextCheckout || res.Hunt != nil {
		t.Errorf("expected checkout step, got %+v", res)
	}
	if res.Checkout.Path != "/checkout/levelsio?tier=sweet_spot" {
		t.Errorf("path: got %q", res.Checkout.Path)
	}
	if res.Checkout.Price != 19 {
		t.Errorf("price: got %d", res.Checkout.Price)
	}
}

func TestStartHunt_SneakPeek_ReturnsCSVOnlySummary(t *testing.T) {
	// Arrange
	f := newFixture(t, instantClock{})

	// Act
	res, err := f.svc.StartHunt(context.Background(), usecases.StartRequest{Handle: "levelsio", Tier: "sneak-peek"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	waitReady(t, f.svc, res.Hunt.ID)
	view, err := f.svc.Results(context.Background(), res.Hunt.ID, pipeline.DefaultCriteria(), "")

	// Assert
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	if !view.CSVOnly || len(view.Profiles) != 0 {
		t.Errorf("expected CSV-only summary, got %d profiles", len(view.Profiles))
	}
	if view.Total != 127 {
		t.Errorf("total: got %d, want 127", view.Total)
	}
	if view.FileName != "hunt-results-levelsio-sneak-peek.csv" {
		t.Errorf("file name: got %q", view.FileName)
	}
	want := "/checkout/levelsio?originalPrice=9&tier=sweet_spot&upgrade=true&upgradePrice=10"
	if view.UpgradePath != want {
		t.Errorf("upgrade path: got %q, want %q", view.UpgradePath, want)
	}
}

func TestCheckout_GatewayFailure_IsRecoverable(t *testing.T) {
	// Arrange
	f := newFixture(t, stalledClock{})
	f.gateway.err = domain.ErrCheckoutFailed

	// Act
	_, err := f.svc.Checkout(context.Background(), usecases.CheckoutRequest{
		Handle: "levelsio", Tier: "sweet_spot", Email: "hunter@example.com",
	})

	// Assert
	if !errors.Is(err, domain.ErrCheckoutFailed) {
		t.Errorf("expected ErrCheckoutFailed, got %v", err)
	}
	if !usecases.IsRecoverable(err) {
		t.Error("checkout failure should be recoverable")
	}
	if f.hunts.Len() != 0 {
		t.Error("failed checkout must not start a hunt")
	}
}

func TestCheckout_Upgrade_ChargesUpgradePrice(t *testing.T) {
	// Arrange
	f := newFixture(t, stalledClock{})

	// Act
	res, err := f.svc.Checkout(context.Background(), usecases.CheckoutRequest{
		Handle: "levelsio", Tier: "sweet_spot", Email: "hunter@example.com",
		Upgrade: true, OriginalPrice: 9, UpgradePrice: 10,
	})

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	charge := f.gateway.charges[0]
	if charge.Amount != 10 || !charge.Upgrade || charge.OriginalPrice != 9 {
		t.Errorf("unexpected charge: %+v", charge)
	}
	if res.Hunt.Status != domain.HuntProcessing || res.Hunt.Target.Tier != domain.SweetSpot {
		t.Errorf("unexpected hunt: %+v", res.Hunt)
	}
}

func TestCheckout_Upgrade_RejectsInvalidOffers(t *testing.T) {
	tests := []struct {
		name string
		req  usecases.CheckoutRequest
		want error
	}{
		{
			name: "into sneak peek",
			req:  usecases.CheckoutRequest{Tier: "sneak-peek", UpgradePrice: 1},
			want: domain.ErrUpgradeTier,
		},
		{
			name: "discounted upgrade price",
			req:  usecases.CheckoutRequest{Tier: "sweet_spot", UpgradePrice: 1},
			want: domain.ErrUpgradePrice,
		},
		{
			name: "wrong original price",
			req:  usecases.CheckoutRequest{Tier: "sweet_spot", OriginalPrice: 19},
			want: domain.ErrUpgradePrice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			f := newFixture(t, stalledClock{})
			req := tt.req
			req.Handle = "levelsio"
			req.Email = "hunter@example.com"
			req.Upgrade = true

			// Act
			_, err := f.svc.Checkout(context.Background(), req)

			// Assert
			if err != tt.want {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if !usecases.IsRecoverable(err) {
				t.Error("an invalid offer should be reported as a validation error")
			}
			if len(f.gateway.charges) != 0 || f.hunts.Len() != 0 {
				t.Error("an invalid upgrade must not charge or start a hunt")
			}
		})
	}
}

func TestCheckout_InvalidEmail_ReturnsValidationError(t *testing.T) {
	// Arrange
	f := newFixture(t, stalledClock{})

	// Act
	_, err := f.svc.Checkout(context.Background(), usecases.CheckoutRequest{
		Handle: "levelsio", Tier: "sweet_spot", Email: "nope",
	})

	// Assert
	if err != domain.ErrEmailInvalid {
		t.Errorf("expected ErrEmailInvalid, got %v", err)
	}
	if len(f.gateway.charges) != 0 {
		t.Error("gateway should not be called")
	}
}

func TestResults_BeforeHandoff_ReturnsNotReady(t *testing.T) {
	// Arrange
	f := newFixture(t, stalledClock{})
	res, _ := f.svc.StartHunt(context.Background(), usecases.StartRequest{Handle: "levelsio", Tier: "sneak-peek"})

	// Act
	_, err := f.svc.Results(context.Background(), res.Hunt.ID, pipeline.DefaultCriteria(), "")
	progress, perr := f.svc.Progress(context.Background(), res.Hunt.ID)

	// Assert
	if !errors.Is(err, domain.ErrHuntNotReady) {
		t.Errorf("expected ErrHuntNotReady, got %v", err)
	}
	if perr != nil {
		t.Fatalf("progress: %v", perr)
	}
	if progress.Stage != simulator.Activated || progress.ResultsPath != "" {
		t.Errorf("unexpected progress: stage %v, path %q", progress.Stage, progress.ResultsPath)
	}
}

func TestCancel_ForgetsHunt(t *testing.T) {
	// Arrange
	f := newFixture(t, stalledClock{})
	res, _ := f.svc.StartHunt(context.Background(), usecases.StartRequest{Handle: "levelsio", Tier: "sneak-peek"})

	// Act
	err := f.svc.Cancel(context.Background(), res.Hunt.ID)
	_, perr := f.svc.Progress(context.Background(), res.Hunt.ID)

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !errors.Is(perr, domain.ErrHuntNotFound) {
		t.Errorf("expected ErrHuntNotFound, got %v", perr)
	}
}

func TestSweetSpot_SelectAndBag_MovesProfilesToTrophyRoom(t *testing.T) {
	// Arrange
	f := newFixture(t, instantClock{})
	id := checkoutSweetSpot(t, f)
	ctx := context.Background()

	// Act
	view, err := f.svc.Results(ctx, id, pipeline.DefaultCriteria(), "")
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	sel, err := f.svc.TogglePage(ctx, id)
	if err != nil {
		t.Fatalf("toggle page: %v", err)
	}
	bag, err := f.svc.Bag(ctx, id)
	if err != nil {
		t.Fatalf("bag: %v", err)
	}
	again, _ := f.svc.Bag(ctx, id)

	// Assert
	if view.Total != 847 || view.Pages != 34 || len(view.Profiles) != pipeline.PageSize {
		t.Errorf("unexpected page: total %d, pages %d, len %d", view.Total, view.Pages, len(view.Profiles))
	}
	if sel.Count != pipeline.PageSize {
		t.Errorf("selected: got %d", sel.Count)
	}
	if bag.Added != pipeline.PageSize || bag.Total != pipeline.PageSize {
		t.Errorf("bag: %+v", bag)
	}
	if again.Selected != 0 || again.Added != 0 {
		t.Errorf("selection should be cleared after bagging: %+v", again)
	}
	room := f.trophies.Browse(ctx, trophy.Query{})
	if len(room.Profiles) != pipeline.PageSize {
		t.Errorf("trophy room: got %d profiles", len(room.Profiles))
	}
}

func TestSelection_UnknownProfile_ReturnsNotFound(t *testing.T) {
	// Arrange
	f := newFixture(t, instantClock{})
	id := checkoutSweetSpot(t, f)

	// Act
	_, err := f.svc.ToggleProfile(context.Background(), id, "profile-99999")

	// Assert
	if !errors.Is(err, domain.ErrProfileNotFound) {
		t.Errorf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestSelectHighScorers_OnlyAddsTrophyTargets(t *testing.T) {
	// Arrange
	f := newFixture(t, instantClock{})
	id := checkoutSweetSpot(t, f)
	ctx := context.Background()
	view, _ := f.svc.Results(ctx, id, pipeline.DefaultCriteria(), "")
	want := 0
	for _, p := range view.Profiles {
		if p.HuntScore >= pipeline.HighScoreThreshold {
			want++
		}
	}

	// Act
	sel, err := f.svc.SelectHighScorers(ctx, id)

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sel.Count != want {
		t.Errorf("selected %d, want %d", sel.Count, want)
	}
}

func TestSneakPeek_BagAndSelection_RequireSweetSpot(t *testing.T) {
	// Arrange
	f := newFixture(t, instantClock{})
	res, _ := f.svc.StartHunt(context.Background(), usecases.StartRequest{Handle: "levelsio", Tier: "sneak-peek"})
	waitReady(t, f.svc, res.Hunt.ID)

	// Act
	_, bagErr := f.svc.Bag(context.Background(), res.Hunt.ID)
	_, selErr := f.svc.TogglePage(context.Background(), res.Hunt.ID)

	// Assert
	if !errors.Is(bagErr, domain.ErrTierFeature) {
		t.Errorf("bag: expected ErrTierFeature, got %v", bagErr)
	}
	if !errors.Is(selErr, domain.ErrTierFeature) {
		t.Errorf("selection: expected ErrTierFeature, got %v", selErr)
	}
}

func TestExport_SweetSpot_UsesCurrentFilters(t *testing.T) {
	// Arrange
	f := newFixture(t, instantClock{})
	id := checkoutSweetSpot(t, f)
	ctx := context.Background()
	c := pipeline.DefaultCriteria()
	c.Category = "AI"
	view, _ := f.svc.Results(ctx, id, c, "")

	// Act
	file, err := f.svc.Export(ctx, id)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	_, data, err := f.svc.Download(ctx, file.Token)

	// Assert
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if file.FileName != "hunt-results-levelsio-sweet-spot.csv" {
		t.Errorf("file name: got %q", file.FileName)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != view.Total+1 {
		t.Errorf("rows: got %d, want %d plus header", len(lines)-1, view.Total)
	}
	for _, line := range lines[1:] {
		if !strings.Contains(line, ",AI,") {
			t.Errorf("row outside the filter: %q", line)
			break
		}
	}
}

func TestExport_SneakPeek_ExportsEveryResult(t *testing.T) {
	// Arrange
	f := newFixture(t, instantClock{})
	res, _ := f.svc.StartHunt(context.Background(), usecases.StartRequest{Handle: "levelsio", Tier: "sneak-peek"})
	waitReady(t, f.svc, res.Hunt.ID)

	// Act
	file, err := f.svc.Export(context.Background(), res.Hunt.ID)

	// Assert
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	data := f.exports.files[file.FileName]
	if got := strings.Count(string(data), "\n"); got != 128 {
		t.Errorf("lines: got %d, want 128", got)
	}
}

func TestTrophyRoom_SeedAndLists(t *testing.T) {
	// Arrange
	ctx := context.Background()
	uc := usecases.NewTrophyRoomUseCase(trophy.NewRoom())
	if err := uc.Seed(ctx, generator.NewSeeded(3), 23); err != nil {
		t.Fatalf("seed: %v", err)
	}
	list, err := uc.CreateList(ctx, "  Investors ", "")
	if err != nil {
		t.Fatalf("create list: %v", err)
	}

	// Act
	first := uc.Browse(ctx, trophy.Query{}).Profiles[0].Key
	_, _ = uc.AddToList(ctx, list.ID, []string{first})
	active, _ := uc.SetActiveList(ctx, list.ID)
	filtered := uc.Browse(ctx, trophy.Query{})
	_ = uc.DeleteList(ctx, list.ID)
	after := uc.Browse(ctx, trophy.Query{})

	// Assert
	if active.Name != "Investors" {
		t.Errorf("active list: got %+v", active)
	}
	if len(filtered.Profiles) != 1 {
		t.Errorf("filtered: got %d profiles", len(filtered.Profiles))
	}
	if after.ActiveList.ID != trophy.AllLists || len(after.Profiles) != 23 {
		t.Errorf("after delete: active %+v, %d profiles", after.ActiveList, len(after.Profiles))
	}
	if _, err := uc.CreateList(ctx, " ", ""); err != domain.ErrListNameRequired {
		t.Errorf("expected ErrListNameRequired, got %v", err)
	}
}

func TestHistory_SplitsFullAndQuickHunts(t *testing.T) {
	// Arrange
	f := newFixture(t, instantClock{})
	ctx := context.Background()
	full := checkoutSweetSpot(t, f)
	_, _ = f.svc.Results(ctx, full, pipeline.DefaultCriteria(), "")
	_, _ = f.svc.SelectHighScorers(ctx, full)
	bag, _ := f.svc.Bag(ctx, full)
	quick, err := f.svc.StartHunt(ctx, usecases.StartRequest{Handle: "paulgraham", Tier: "sneak-peek"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	waitReady(t, f.svc, quick.Hunt.ID)

	// Act
	d := f.svc.History(ctx)

	// Assert
	if d.Stats.HuntsCompleted != 2 {
		t.Errorf("hunts completed: got %d, want 2", d.Stats.HuntsCompleted)
	}
	if d.Stats.TotalTrophies != bag.Total {
		t.Errorf("total trophies: got %d, want %d", d.Stats.TotalTrophies, bag.Total)
	}
	if len(d.Hunts) != 1 || len(d.QuickHunts) != 1 {
		t.Fatalf("expected one hunt of each kind, got %d full, %d quick", len(d.Hunts), len(d.QuickHunts))
	}
	h := d.Hunts[0]
	if h.ID != full || h.Bagged != bag.Added || h.Price != 19 || h.UpgradePath != "" {
		t.Errorf("unexpected full hunt: %+v", h)
	}
	if h.ResultsPath != "/api/hunts/"+full+"/results" {
		t.Errorf("results path: got %q", h.ResultsPath)
	}
	q := d.QuickHunts[0]
	want := "/checkout/paulgraham?originalPrice=9&tier=sweet_spot&upgrade=true&upgradePrice=10"
	if q.Target.Handle != "paulgraham" || q.Price != 9 || q.UpgradePath != want {
		t.Errorf("unexpected quick hunt: %+v", q)
	}
	if q.ExportPath != "/api/hunts/"+quick.Hunt.ID+"/export" || q.CompletedAt.IsZero() {
		t.Errorf("unexpected quick hunt: %+v", q)
	}
}

func TestHistory_SkipsUnfinishedHunts(t *testing.T) {
	// Arrange
	f := newFixture(t, stalledClock{})
	_, _ = f.svc.StartHunt(context.Background(), usecases.StartRequest{Handle: "levelsio", Tier: "sneak-peek"})

	// Act
	d := f.svc.History(context.Background())

	// Assert
	if d.Stats.HuntsCompleted != 0 || len(d.Hunts) != 0 || len(d.QuickHunts) != 0 {
		t.Errorf("expected an empty dashboard, got %+v", d)
	}
}
