// Package tracker wires the core components into one transport-agnostic
// service. The HTTP API, the gRPC server, the CLI and the scheduler all go
// through it.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"jobmate/job-tracker/internal/clock"
	"jobmate/job-tracker/internal/digest"
	"jobmate/job-tracker/internal/events"
	"jobmate/job-tracker/internal/listing"
	"jobmate/job-tracker/internal/pipeline"
	"jobmate/job-tracker/internal/prefs"
	"jobmate/job-tracker/internal/proof"
	"jobmate/job-tracker/internal/saved"
	"jobmate/job-tracker/internal/status"
	"jobmate/job-tracker/internal/store"
)

// ─── Service ─────────────────────────────────────────────────────────────────

// Service is the single entry point to a user's tracker state.
type Service struct {
	catalog   *listing.Catalog
	clock     clock.Clock
	pub       events.Publisher
	prefs     *prefs.Repository
	statuses  *status.Tracker
	saved     *saved.Set
	digests   *digest.Generator
	artifacts *proof.ArtifactStore
	checklist *proof.Checklist
	pipeline  *pipeline.Pipeline
}

// NewService returns a Service over catalog with all per-user state kept in
// st. clk and pub may be nil.
func NewService(catalog *listing.Catalog, st store.Store, clk clock.Clock, pub events.Publisher) *Service {
	if clk == nil {
		clk = clock.System{}
	}
	if pub == nil {
		pub = events.Nop{}
	}
	statuses := status.NewTracker(st, catalog.Lookup, clk, pub)
	return &Service{
		catalog:   catalog,
		clock:     clk,
		pub:       pub,
		prefs:     prefs.NewRepository(st),
		statuses:  statuses,
		saved:     saved.NewSet(st),
		digests:   digest.NewGenerator(catalog, st, clk),
		artifacts: proof.NewArtifactStore(st),
		checklist: proof.NewChecklist(st),
		pipeline:  pipeline.New(statuses),
	}
}

// ─── Listings ────────────────────────────────────────────────────────────────

// JobQuery is the listing request as transports receive it.
type JobQuery struct {
	Keyword     string
	Location    string
	Mode        string
	Experience  string
	Source      string
	Status      string
	Sort        string
	OnlyMatches bool
}

// JobCard is a listing together with the user's state for it.
type JobCard struct {
	listing.Job
	Status status.Status `json:"status"`
	Saved  bool          `json:"saved"`
}

// Jobs scores the catalog against the saved preferences (when any), then
// filters and sorts it. OnlyMatches drops jobs under the saved threshold.
func (s *Service) Jobs(ctx context.Context, q JobQuery) ([]JobCard, error) {
	f := pipeline.Filters{
		Keyword:    q.Keyword,
		Location:   q.Location,
		Mode:       q.Mode,
		Experience: q.Experience,
		Source:     q.Source,
		Sort:       pipeline.SortKey(q.Sort),
	}
	if q.Status != "" {
		st, err := status.ParseStatus(q.Status)
		if err != nil {
			return nil, &ValidationError{Msg: err.Error()}
		}
		f.Status = st
	}

	jobs := s.catalog.All()
	var opts pipeline.Options
	if p, ok := s.prefs.Get(ctx); ok {
		jobs = pipeline.Scored(jobs, &p)
		opts = pipeline.Options{
			FilterByMatchScore: q.OnlyMatches,
			Preferences:        &p,
			MinMatchScore:      p.MinMatchScore,
		}
	}

	return s.cards(ctx, s.pipeline.Apply(ctx, jobs, f, opts)), nil
}

func (s *Service) cards(ctx context.Context, jobs []listing.Job) []JobCard {
	statuses := s.statuses.Statuses(ctx)
	ids := s.saved.IDs(ctx)
	isSaved := make(map[int]bool, len(ids))
	for _, id := range ids {
		isSaved[id] = true
	}

	out := make([]JobCard, len(jobs))
	for i, j := range jobs {
		st, ok := statuses[j.ID]
		if !ok {
			st = status.NotApplied
		}
		out[i] = JobCard{Job: j, Status: st, Saved: isSaved[j.ID]}
	}
	return out
}

// Job returns one listing by id.
func (s *Service) Job(id int) (listing.Job, error) {
	j, ok := s.catalog.Lookup(id)
	if !ok {
		return listing.Job{}, ErrNotFound
	}
	return j, nil
}

// FilterOptions lists the choices offered for each exact-match filter.
func (s *Service) FilterOptions() map[string][]string {
	jobs := s.catalog.All()
	return map[string][]string{
		"location":   pipeline.UniqueValues(jobs, pipeline.FieldLocation),
		"mode":       pipeline.UniqueValues(jobs, pipeline.FieldMode),
		"experience": pipeline.UniqueValues(jobs, pipeline.FieldExperience),
		"source":     pipeline.UniqueValues(jobs, pipeline.FieldSource),
	}
}

// ─── Status ──────────────────────────────────────────────────────────────────

// Status returns the current status of a catalog job.
func (s *Service) Status(ctx context.Context, id int) (status.Status, error) {
	if _, err := s.Job(id); err != nil {
		return "", err
	}
	return s.statuses.Get(ctx, id), nil
}

// SetStatus moves a catalog job to raw, which must name a known status.
func (s *Service) SetStatus(ctx context.Context, id int, raw string) (status.Status, error) {
	st, err := status.ParseStatus(raw)
	if err != nil {
		return "", &ValidationError{Msg: err.Error()}
	}
	j, err := s.Job(id)
	if err != nil {
		return "", err
	}
	if !s.statuses.Set(ctx, id, st, &status.JobInfo{Title: j.Title, Company: j.Company}) {
		return "", fmt.Errorf("set status of job %d: %w", id, ErrStorage)
	}
	return st, nil
}

// History returns the status change log, newest first.
func (s *Service) History(ctx context.Context) []status.Entry {
	return s.statuses.History(ctx)
}

// ─── Saved jobs ──────────────────────────────────────────────────────────────

// SaveJob bookmarks a catalog job. saved is false when it already was.
func (s *Service) SaveJob(ctx context.Context, id int) (bool, error) {
	if _, err := s.Job(id); err != nil {
		return false, err
	}
	if s.saved.IsSaved(ctx, id) {
		return false, nil
	}
	if !s.saved.Save(ctx, id) {
		return false, fmt.Errorf("save job %d: %w", id, ErrStorage)
	}
	return true, nil
}

// UnsaveJob removes a bookmark. removed is false when there was none.
func (s *Service) UnsaveJob(ctx context.Context, id int) (bool, error) {
	if !s.saved.IsSaved(ctx, id) {
		return false, nil
	}
	if !s.saved.Unsave(ctx, id) {
		return false, fmt.Errorf("unsave job %d: %w", id, ErrStorage)
	}
	return true, nil
}

// SavedJobs returns bookmarked listings in the order they were saved. Ids no
// longer in the catalog are skipped.
func (s *Service) SavedJobs(ctx context.Context) []JobCard {
	var jobs []listing.Job
	for _, id := range s.saved.IDs(ctx) {
		if j, ok := s.catalog.Lookup(id); ok {
			jobs = append(jobs, j)
		}
	}
	return s.cards(ctx, jobs)
}

// ─── Preferences ─────────────────────────────────────────────────────────────

// Preferences returns the saved preferences; ok is false when none are set.
func (s *Service) Preferences(ctx context.Context) (prefs.Preferences, bool) {
	return s.prefs.Get(ctx)
}

// SavePreferences overwrites the preferences and returns what was stored.
func (s *Service) SavePreferences(ctx context.Context, p prefs.Preferences) (prefs.Preferences, error) {
	if !s.prefs.Save(ctx, p) {
		return prefs.Preferences{}, fmt.Errorf("save preferences: %w", ErrStorage)
	}
	return p.Normalize(), nil
}

// ─── Digest ──────────────────────────────────────────────────────────────────

// Today is the current digest date.
func (s *Service) Today(ctx context.Context) string {
	return s.digests.Today(ctx)
}

// Digest returns the stored digest for date (today when empty).
func (s *Service) Digest(ctx context.Context, date string) ([]digest.Entry, string, error) {
	date, err := s.digestDate(ctx, date)
	if err != nil {
		return nil, "", err
	}
	entries, ok := s.digests.Load(ctx, date)
	if !ok {
		return nil, date, ErrNotFound
	}
	return entries, date, nil
}

// DigestText renders the stored digest for date as plain text.
func (s *Service) DigestText(ctx context.Context, date string) (string, error) {
	entries, date, err := s.Digest(ctx, date)
	if err != nil {
		return "", err
	}
	return digest.FormatPlainText(entries, date), nil
}

// GenerateDigest builds today's digest from the saved preferences and stores
// it, replacing any earlier one.
func (s *Service) GenerateDigest(ctx context.Context) ([]digest.Entry, error) {
	p, ok := s.prefs.Get(ctx)
	if !ok {
		return nil, ErrNoPreferences
	}
	date := s.Today(ctx)
	jobs := s.digests.Generate(ctx, &p)
	if !s.digests.Save(ctx, date, jobs) {
		return nil, fmt.Errorf("save digest %s: %w", date, ErrStorage)
	}
	entries := digest.Project(jobs)
	s.publishDigest(ctx, date, entries)
	return entries, nil
}

// EnsureDigest returns today's digest, generating it when missing. created
// reports whether a new one was stored.
func (s *Service) EnsureDigest(ctx context.Context) (entries []digest.Entry, created bool, err error) {
	var pp *prefs.Preferences
	if p, ok := s.prefs.Get(ctx); ok {
		pp = &p
	}
	entries, created = s.digests.EnsureToday(ctx, pp)
	if entries == nil {
		return nil, false, ErrNoPreferences
	}
	if created {
		s.publishDigest(ctx, s.Today(ctx), entries)
	}
	return entries, created, nil
}

func (s *Service) publishDigest(ctx context.Context, date string, entries []digest.Entry) {
	event := map[string]any{
		"type":  events.TypeDigestGenerated,
		"date":  date,
		"count": len(entries),
		"at":    clock.ISO(s.clock.Now()),
	}
	if err := s.pub.Publish(ctx, events.ChannelDigestGenerated, event); err != nil {
		slog.Warn("publish digest event failed", "date", date, "err", err)
	}
}

func (s *Service) digestDate(ctx context.Context, date string) (string, error) {
	if date == "" {
		return s.Today(ctx), nil
	}
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return "", &ValidationError{Msg: fmt.Sprintf("invalid date %q, want YYYY-MM-DD", date)}
	}
	return date, nil
}

// ─── Proof ───────────────────────────────────────────────────────────────────

// Artifacts returns the submitted project links.
func (s *Service) Artifacts(ctx context.Context) proof.Artifacts {
	return s.artifacts.Get(ctx)
}

// SetArtifacts stores the project links. Each non-empty link must be an
// http(s) URL.
func (s *Service) SetArtifacts(ctx context.Context, a proof.Artifacts) error {
	links := []struct{ name, value string }{
		{"lovableLink", a.LovableLink},
		{"githubLink", a.GithubLink},
		{"deployedUrl", a.DeployedURL},
	}
	for _, l := range links {
		if l.value != "" && !proof.IsValidURL(l.value) {
			return &ValidationError{Msg: fmt.Sprintf("%s must be an http(s) URL", l.name)}
		}
	}
	if !s.artifacts.Set(ctx, a) {
		return fmt.Errorf("save artifacts: %w", ErrStorage)
	}
	return nil
}

// Checklist returns the test checklist state.
func (s *Service) Checklist(ctx context.Context) []bool {
	return s.checklist.State(ctx)
}

// SetChecklist replaces the checklist state.
func (s *Service) SetChecklist(ctx context.Context, state []bool) error {
	if len(state) != proof.ChecklistSize {
		return &ValidationError{Msg: fmt.Sprintf("checklist must have %d items", proof.ChecklistSize)}
	}
	if !s.checklist.Set(ctx, state) {
		return fmt.Errorf("save checklist: %w", ErrStorage)
	}
	return nil
}

// ChecklistSummary is the checklist with its pass count.
type ChecklistSummary struct {
	Items     []bool `json:"items"`
	Passed    int    `json:"passed"`
	Total     int    `json:"total"`
	AllPassed bool   `json:"allPassed"`
}

// ChecklistSummary returns the checklist state and how much of it passed.
func (s *Service) ChecklistSummary(ctx context.Context) ChecklistSummary {
	return ChecklistSummary{
		Items:     s.checklist.State(ctx),
		Passed:    s.checklist.Passed(ctx),
		Total:     proof.ChecklistSize,
		AllPassed: s.checklist.AllPassed(ctx),
	}
}

// ToggleChecklistItem checks or unchecks the item at idx.
func (s *Service) ToggleChecklistItem(ctx context.Context, idx int, checked bool) error {
	if idx < 0 || idx >= proof.ChecklistSize {
		return &ValidationError{Msg: fmt.Sprintf("checklist item must be between 0 and %d", proof.ChecklistSize-1)}
	}
	if err := s.checklist.Toggle(ctx, idx, checked); err != nil {
		return fmt.Errorf("%v: %w", err, ErrStorage)
	}
	return nil
}

// ResetChecklist unchecks every item.
func (s *Service) ResetChecklist(ctx context.Context) error {
	if !s.checklist.Reset(ctx) {
		return fmt.Errorf("reset checklist: %w", ErrStorage)
	}
	return nil
}

// ─── Sentinel errors ─────────────────────────────────────────────────────────

// ErrNotFound is returned for unknown job ids and missing digests.
var ErrNotFound = errors.New("not found")

// ErrStorage is returned when the store rejected a write.
var ErrStorage = errors.New("storage unavailable")

// ErrNoPreferences is returned when a digest is requested before any
// preferences were saved.
var ErrNoPreferences = errors.New("set your preferences to generate a digest")

// ValidationError wraps a user-facing validation message.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }
