package scheduling

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	scheduleRepo "slotline/database/repository/schedule"
	"slotline/models"
)

// fakeProviderRepo serves a fixed provider set from memory.
type fakeProviderRepo struct {
	providers []models.Provider
}

func (f *fakeProviderRepo) GetByID(id string) (*models.Provider, error) {
	for i := range f.providers {
		if f.providers[i].ID == id {
			return &f.providers[i], nil
		}
	}
	return nil, nil
}

func (f *fakeProviderRepo) GetAll() ([]models.Provider, error) {
	return f.providers, nil
}

func (f *fakeProviderRepo) FindByName(fragment string) (*models.Provider, error) {
	for i := range f.providers {
		if f.providers[i].Name == fragment {
			return &f.providers[i], nil
		}
	}
	return nil, nil
}

func (f *fakeProviderRepo) Create(provider *models.Provider) error {
	f.providers = append(f.providers, *provider)
	return nil
}

// fakeUserRepo keys users by email like the real repository.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}}
}

func (f *fakeUserRepo) GetByID(id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[email], nil
}

func (f *fakeUserRepo) GetOrCreate(email, name string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[email]; ok {
		return u, nil
	}
	u := &models.User{ID: fmt.Sprintf("u-%d", len(f.users)+1), Email: email, Name: name}
	f.users[email] = u
	return u, nil
}

// fakeScheduleRepo holds slots and appointments in memory. ClaimSlot is
// serialized by a mutex, matching the atomicity of the real store.
type fakeScheduleRepo struct {
	mu           sync.Mutex
	windows      []models.AvailabilityWindow
	slots        map[string]*models.Slot
	appointments map[string]*models.Appointment
	refSeq       int
	listErr      error
	createErr    error
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{
		slots:        map[string]*models.Slot{},
		appointments: map[string]*models.Appointment{},
	}
}

func (f *fakeScheduleRepo) CreateWindow(window *models.AvailabilityWindow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.windows = append(f.windows, *window)
	return nil
}

func (f *fakeScheduleRepo) ListWindows(providerID string, date time.Time) ([]models.AvailabilityWindow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	from := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	to := from.AddDate(0, 0, 1)
	var out []models.AvailabilityWindow
	for _, w := range f.windows {
		if w.ProviderID == providerID && !w.Start.Before(from) && w.Start.Before(to) {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeScheduleRepo) InsertSlots(slots []models.Slot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range slots {
		s := slots[i]
		f.slots[s.ID] = &s
	}
	return nil
}

func (f *fakeScheduleRepo) GetSlotByID(id string) (*models.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.slots[id], nil
}

func (f *fakeScheduleRepo) ListAvailableSlots(providerID string, date time.Time) ([]models.Slot, error) {
	from := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return f.ListAvailableSlotsInRange(providerID, from, from.AddDate(0, 0, 1))
}

func (f *fakeScheduleRepo) ListAvailableSlotsInRange(providerID string, from, to time.Time) ([]models.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.Slot
	for _, s := range f.slots {
		if s.ProviderID == providerID && s.Available && !s.Start.Before(from) && s.Start.Before(to) {
			out = append(out, *s)
		}
	}
	// ascending by start, like the real query
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Start.Before(out[j-1].Start); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out, nil
}

func (f *fakeScheduleRepo) ClaimSlot(id string) (*models.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.slots[id]
	if !ok || !s.Available {
		return nil, scheduleRepo.ErrSlotClaimed
	}
	s.Available = false
	claimed := *s
	return &claimed, nil
}

func (f *fakeScheduleRepo) ReleaseSlot(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.slots[id]; ok {
		s.Available = true
	}
	return nil
}

func (f *fakeScheduleRepo) NextBookingReference() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refSeq++
	return fmt.Sprintf("B%03d", f.refSeq), nil
}

func (f *fakeScheduleRepo) CreateAppointment(appointment *models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.appointments[appointment.Reference] = appointment
	return nil
}

func (f *fakeScheduleRepo) GetAppointmentByReference(reference string) (*models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.appointments[reference], nil
}

func (f *fakeScheduleRepo) CancelAppointment(reference string) (*models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.appointments[reference]
	if !ok {
		return nil, nil
	}
	a.Status = models.AppointmentCancelled
	return a, nil
}

func (f *fakeScheduleRepo) CountAppointments() (int64, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var booked int64
	for _, a := range f.appointments {
		if a.Status == models.AppointmentBooked {
			booked++
		}
	}
	return int64(len(f.appointments)), booked, nil
}

type fakeNotifier struct {
	confirmations chan string
}

func (f *fakeNotifier) SendConfirmation(email string, details models.BookingDetails) error {
	f.confirmations <- email
	return nil
}

func (f *fakeNotifier) SendReminder(email string, details models.BookingDetails) error {
	return nil
}

func newTestEngine() (*DefaultBookingEngine, *fakeScheduleRepo) {
	sched := newFakeScheduleRepo()
	engine := &DefaultBookingEngine{
		Providers: &fakeProviderRepo{providers: []models.Provider{
			{ID: "p1", Name: "Dr. Smith", ServiceType: "general checkup"},
		}},
		Users:               newFakeUserRepo(),
		Schedule:            sched,
		SlotDurationMinutes: 30,
	}
	return engine, sched
}

func seedSlots(sched *fakeScheduleRepo, providerID string, starts ...time.Time) []models.Slot {
	slots := make([]models.Slot, 0, len(starts))
	for i, start := range starts {
		slots = append(slots, models.Slot{
			ID:              fmt.Sprintf("s-%d", i+1),
			ProviderID:      providerID,
			Start:           start,
			End:             start.Add(30 * time.Minute),
			DurationMinutes: 30,
			Available:       true,
		})
	}
	_ = sched.InsertSlots(slots)
	return slots
}

func TestSuggestSlots_ExactMatchFound(t *testing.T) {
	engine, sched := newTestEngine()
	day := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	seedSlots(sched, "p1",
		day.Add(9*time.Hour),
		day.Add(10*time.Hour),
		day.Add(11*time.Hour),
	)

	result := engine.SuggestSlots("p1", day, "10 am")
	if !result.Available {
		t.Fatalf("expected an available result, got %q", result.Message)
	}
	if result.Message != "Found an available slot!" {
		t.Fatalf("message = %q", result.Message)
	}
	if result.Slot == nil || !result.Slot.Slot.Start.Equal(day.Add(10*time.Hour)) {
		t.Fatalf("wrong slot: %+v", result.Slot)
	}
	if result.Slot.Score <= 0.8 {
		t.Fatalf("exact match score %v not above threshold", result.Slot.Score)
	}
}

func TestSuggestSlots_WeakMatchFallsBackToAlternatives(t *testing.T) {
	engine, sched := newTestEngine()
	day := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	// Nearest slot is 2h off the preference, scoring 1/(1+120/60)=0.33.
	seedSlots(sched, "p1", day.Add(16*time.Hour))

	result := engine.SuggestSlots("p1", day, "2 pm")
	if result.Available {
		t.Fatal("a 2h miss must not count as a match")
	}
	if result.Message != "Sorry, no available slots found for your preferred time." {
		t.Fatalf("message = %q", result.Message)
	}
	if len(result.Alternatives) != 1 {
		t.Fatalf("expected 1 alternative, got %d", len(result.Alternatives))
	}
}

func TestSuggestSlots_AlternativesCappedAndAscending(t *testing.T) {
	engine, sched := newTestEngine()
	day := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	var starts []time.Time
	for d := 1; d <= 6; d++ {
		starts = append(starts, day.AddDate(0, 0, d).Add(9*time.Hour))
	}
	seedSlots(sched, "p1", starts...)

	result := engine.SuggestSlots("p1", day, "9 am")
	if result.Available {
		t.Fatal("preferred day has no slots, result must be unavailable")
	}
	if len(result.Alternatives) != 5 {
		t.Fatalf("expected alternatives capped at 5, got %d", len(result.Alternatives))
	}
	for i := 1; i < len(result.Alternatives); i++ {
		if result.Alternatives[i].Start.Before(result.Alternatives[i-1].Start) {
			t.Fatalf("alternatives not ascending at %d", i)
		}
	}
}

func TestSuggestSlots_NothingAnywhere(t *testing.T) {
	engine, _ := newTestEngine()
	day := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)

	result := engine.SuggestSlots("p1", day, "morning")
	if result.Available {
		t.Fatal("expected unavailable")
	}
	if result.Message != "Sorry, no available slots found. Please try a different date or provider." {
		t.Fatalf("message = %q", result.Message)
	}
	if len(result.Alternatives) != 0 {
		t.Fatalf("expected no alternatives, got %d", len(result.Alternatives))
	}
}

func TestSuggestSlots_StoreFaultDowngraded(t *testing.T) {
	engine, sched := newTestEngine()
	sched.listErr = fmt.Errorf("connection reset")

	result := engine.SuggestSlots("p1", time.Now(), "morning")
	if result.Available {
		t.Fatal("expected unavailable on store fault")
	}
	if result.Message != "An error occurred while searching for slots." {
		t.Fatalf("message = %q", result.Message)
	}
}

func TestBookAppointment_Success(t *testing.T) {
	engine, sched := newTestEngine()
	notifier := &fakeNotifier{confirmations: make(chan string, 1)}
	engine.Notifier = notifier
	day := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	slots := seedSlots(sched, "p1", day.Add(10*time.Hour))

	result := engine.BookAppointment("Alice", "alice@example.com", "p1", slots[0].ID)
	if !result.Success {
		t.Fatalf("booking failed: %q", result.Message)
	}
	if result.Message != "Appointment booked successfully!" {
		t.Fatalf("message = %q", result.Message)
	}
	if result.Details == nil {
		t.Fatal("missing details")
	}
	if result.Details.Reference != "B001" {
		t.Fatalf("reference = %q, want B001", result.Details.Reference)
	}
	if result.Details.Provider != "Dr. Smith" {
		t.Fatalf("provider = %q", result.Details.Provider)
	}
	if result.Details.Date != "2025-03-20" || result.Details.Time != "10:00 AM" {
		t.Fatalf("details = %q %q", result.Details.Date, result.Details.Time)
	}

	select {
	case email := <-notifier.confirmations:
		if email != "alice@example.com" {
			t.Fatalf("confirmation sent to %q", email)
		}
	case <-time.After(time.Second):
		t.Fatal("no confirmation dispatched")
	}

	// The slot is no longer offered.
	remaining, _ := sched.ListAvailableSlots("p1", day)
	if len(remaining) != 0 {
		t.Fatalf("claimed slot still listed: %d", len(remaining))
	}
}

func TestBookAppointment_SlotAlreadyClaimed(t *testing.T) {
	engine, sched := newTestEngine()
	day := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	slots := seedSlots(sched, "p1", day.Add(10*time.Hour))

	first := engine.BookAppointment("Alice", "alice@example.com", "p1", slots[0].ID)
	if !first.Success {
		t.Fatalf("first booking failed: %q", first.Message)
	}

	second := engine.BookAppointment("Bob", "bob@example.com", "p1", slots[0].ID)
	if second.Success {
		t.Fatal("second claim on the same slot must fail")
	}
	if second.Message != "Selected slot is no longer available" {
		t.Fatalf("message = %q", second.Message)
	}
}

func TestBookAppointment_FailedCreateReleasesSlot(t *testing.T) {
	engine, sched := newTestEngine()
	day := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	slots := seedSlots(sched, "p1", day.Add(10*time.Hour))
	sched.createErr = fmt.Errorf("write concern error")

	result := engine.BookAppointment("Alice", "alice@example.com", "p1", slots[0].ID)
	if result.Success {
		t.Fatal("booking must fail when the appointment cannot be stored")
	}

	// The claim is rolled back, so the slot is offered again.
	remaining, _ := sched.ListAvailableSlots("p1", day)
	if len(remaining) != 1 {
		t.Fatalf("slot not re-offered after failed booking: %d available", len(remaining))
	}

	sched.createErr = nil
	retry := engine.BookAppointment("Bob", "bob@example.com", "p1", slots[0].ID)
	if !retry.Success {
		t.Fatalf("retry after release failed: %q", retry.Message)
	}
}

func TestBookAppointment_ConcurrentClaims(t *testing.T) {
	engine, sched := newTestEngine()
	day := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	slots := seedSlots(sched, "p1", day.Add(10*time.Hour))

	const claimants = 8
	results := make(chan models.BookingResult, claimants)
	var wg sync.WaitGroup
	for i := 0; i < claimants; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			email := fmt.Sprintf("user%d@example.com", i)
			results <- engine.BookAppointment("User", email, "p1", slots[0].ID)
		}(i)
	}
	wg.Wait()
	close(results)

	var wins int
	for r := range results {
		if r.Success {
			wins++
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly one winner, got %d", wins)
	}
}

func TestBookAppointment_IdempotentUser(t *testing.T) {
	engine, sched := newTestEngine()
	day := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	slots := seedSlots(sched, "p1", day.Add(10*time.Hour), day.Add(11*time.Hour))

	engine.BookAppointment("Alice", "alice@example.com", "p1", slots[0].ID)
	engine.BookAppointment("Alice A.", "alice@example.com", "p1", slots[1].ID)

	users := engine.Users.(*fakeUserRepo)
	users.mu.Lock()
	defer users.mu.Unlock()
	if len(users.users) != 1 {
		t.Fatalf("same email produced %d users", len(users.users))
	}
}

func TestCancelBooking_Lifecycle(t *testing.T) {
	engine, sched := newTestEngine()
	day := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	slots := seedSlots(sched, "p1", day.Add(10*time.Hour))

	booked := engine.BookAppointment("Alice", "alice@example.com", "p1", slots[0].ID)
	ref := booked.Details.Reference

	status := engine.BookingStatus(ref)
	if !status.Success || status.Message != fmt.Sprintf("Booking %s is booked", ref) {
		t.Fatalf("status = %+v", status)
	}

	cancelled := engine.CancelBooking(ref)
	if !cancelled.Success {
		t.Fatalf("cancel failed: %q", cancelled.Message)
	}
	if cancelled.Message != fmt.Sprintf("Your appointment %s has been cancelled.", ref) {
		t.Fatalf("message = %q", cancelled.Message)
	}

	status = engine.BookingStatus(ref)
	if status.Message != fmt.Sprintf("Booking %s is cancelled", ref) {
		t.Fatalf("post-cancel status = %q", status.Message)
	}

	// Cancelling does not re-offer the slot.
	remaining, _ := sched.ListAvailableSlots("p1", day)
	if len(remaining) != 0 {
		t.Fatalf("cancelled booking released its slot")
	}
}

func TestCancelBooking_UnknownReference(t *testing.T) {
	engine, _ := newTestEngine()

	result := engine.CancelBooking("B999")
	if result.Success {
		t.Fatal("expected failure")
	}
	if result.Message != "Booking B999 not found." {
		t.Fatalf("message = %q", result.Message)
	}
}

func TestBookingStatus_UnknownReference(t *testing.T) {
	engine, _ := newTestEngine()

	result := engine.BookingStatus("B999")
	if result.Success {
		t.Fatal("expected failure")
	}
	if result.Message != "Booking B999 not found." {
		t.Fatalf("message = %q", result.Message)
	}
}

func TestBookingSummary_Counts(t *testing.T) {
	engine, sched := newTestEngine()
	day := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	slots := seedSlots(sched, "p1", day.Add(9*time.Hour), day.Add(10*time.Hour), day.Add(11*time.Hour))

	a := engine.BookAppointment("Alice", "alice@example.com", "p1", slots[0].ID)
	engine.BookAppointment("Bob", "bob@example.com", "p1", slots[1].ID)
	engine.CancelBooking(a.Details.Reference)

	total, booked, err := engine.BookingSummary()
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if total != 2 || booked != 1 {
		t.Fatalf("total=%d booked=%d, want 2/1", total, booked)
	}
}

func TestPublishWindows_PersistsDerivedSlots(t *testing.T) {
	engine, sched := newTestEngine()
	start := time.Now().Add(24 * time.Hour).Truncate(time.Hour)

	slots, err := engine.PublishWindows("p1", []models.AvailabilityWindow{
		{Start: start, End: start.Add(2 * time.Hour), Available: true},
	})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if len(slots) != 4 {
		t.Fatalf("expected 4 slots from a 2h window, got %d", len(slots))
	}
	for i, s := range slots {
		if s.ID == "" {
			t.Fatalf("slot %d has no ID", i)
		}
		stored, _ := sched.GetSlotByID(s.ID)
		if stored == nil {
			t.Fatalf("slot %d not persisted", i)
		}
	}
}

func TestPublishWindows_RejectsInvertedWindow(t *testing.T) {
	engine, sched := newTestEngine()
	start := time.Now().Add(24 * time.Hour)

	_, err := engine.PublishWindows("p1", []models.AvailabilityWindow{
		{Start: start, End: start.Add(-time.Hour), Available: true},
	})
	if err == nil {
		t.Fatal("expected an error for an inverted window")
	}
	var bookingErr *BookingError
	if !errors.As(err, &bookingErr) {
		t.Fatalf("expected a BookingError, got %T", err)
	}
	sched.mu.Lock()
	defer sched.mu.Unlock()
	if len(sched.windows) != 0 {
		t.Fatal("invalid batch must persist nothing")
	}
}

func TestPublishedWindows_FiltersByDay(t *testing.T) {
	engine, _ := newTestEngine()
	day := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)

	_, err := engine.PublishWindows("p1", []models.AvailabilityWindow{
		{Start: day.Add(9 * time.Hour), End: day.Add(11 * time.Hour), Available: true},
		{Start: day.AddDate(0, 0, 1).Add(9 * time.Hour), End: day.AddDate(0, 0, 1).Add(10 * time.Hour), Available: true},
	})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	windows, err := engine.PublishedWindows("p1", day)
	if err != nil {
		t.Fatalf("listing failed: %v", err)
	}
	if len(windows) != 1 {
		t.Fatalf("expected 1 window on the requested day, got %d", len(windows))
	}
	if !windows[0].Start.Equal(day.Add(9 * time.Hour)) {
		t.Fatalf("wrong window: starts %v", windows[0].Start)
	}
}

func TestFormatSlotSuggestion(t *testing.T) {
	engine, _ := newTestEngine()
	slot := models.Slot{
		ProviderID: "p1",
		Start:      time.Date(2025, 3, 20, 10, 0, 0, 0, time.UTC),
	}

	got := engine.FormatSlotSuggestion(slot)
	want := "Dr. Smith on Thursday, March 20 at 10:00 AM"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFormatSlotSuggestion_UnknownProvider(t *testing.T) {
	engine, _ := newTestEngine()
	slot := models.Slot{
		ProviderID: "ghost",
		Start:      time.Date(2025, 3, 20, 10, 0, 0, 0, time.UTC),
	}

	got := engine.FormatSlotSuggestion(slot)
	want := "Unknown Provider on Thursday, March 20 at 10:00 AM"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
