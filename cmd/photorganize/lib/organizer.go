package photorganize

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/user/photorganize/pkg"
)

// Outcome is what happened to one candidate file.
type Outcome string

const (
	OutcomeOrganized Outcome = "organized"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeSkipped   Outcome = "skipped"
)

// Observer receives progress events. Implementations must not block.
type Observer interface {
	OnStart(total int)
	OnFileDone(path string, outcome Outcome)
	OnFinish(summary pkg.Summary)
}

type nopObserver struct{}

func (nopObserver) OnStart(int)                {}
func (nopObserver) OnFileDone(string, Outcome) {}
func (nopObserver) OnFinish(pkg.Summary)       {}

// photoFile is one candidate during a single pass.
type photoFile struct {
	Path     string
	Name     string
	Digest   string
	Resolved pkg.ResolvedTime
}

// Organizer places the photos of one directory into month folders.
type Organizer struct {
	fs       afero.Fs
	cfg      Config
	exts     pkg.ExtensionSet
	hasher   *pkg.Hasher
	resolver *pkg.TimestampResolver
	index    *pkg.DuplicateIndex
	buckets  map[string]*pkg.MonthBucket
	confirm  ConfirmationProvider
	decide   DuplicateDecider
	log      *pkg.Logger
	observer Observer
}

// Option customizes an Organizer.
type Option func(*Organizer)

// WithConfirmation sets the provider consulted for uncertain timestamps in
// interactive mode.
func WithConfirmation(c ConfirmationProvider) Option {
	return func(o *Organizer) { o.confirm = c }
}

// WithDuplicateDecider sets who is asked about each duplicate under the ask
// policy in interactive mode.
func WithDuplicateDecider(d DuplicateDecider) Option {
	return func(o *Organizer) { o.decide = d }
}

func WithObserver(obs Observer) Option {
	return func(o *Organizer) { o.observer = obs }
}

func WithLogger(l *pkg.Logger) Option {
	return func(o *Organizer) { o.log = l }
}

// NewOrganizer builds an Organizer for cfg. cfg should already be validated.
func NewOrganizer(fs afero.Fs, cfg Config, opts ...Option) (*Organizer, error) {
	hasher, err := pkg.NewHasher(fs, cfg.HashAlgorithm)
	if err != nil {
		return nil, err
	}
	o := &Organizer{
		fs:       fs,
		cfg:      cfg,
		exts:     pkg.NewExtensionSet(cfg.Extensions),
		hasher:   hasher,
		index:    pkg.NewDuplicateIndex(),
		buckets:  make(map[string]*pkg.MonthBucket),
		confirm:  AcceptFallback{},
		decide:   KeepDuplicates{},
		log:      pkg.DiscardLogger(),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(o)
	}
	o.resolver = pkg.NewTimestampResolver(fs, o.log)
	return o, nil
}

// Resolver exposes the timestamp resolver, e.g. for prompt details.
func (o *Organizer) Resolver() *pkg.TimestampResolver { return o.resolver }

// Run organizes the directory. Per-file failures are recorded in the summary
// and never abort the run. The returned error is non-nil only when the
// directory cannot be scanned or ctx is cancelled between files.
func (o *Organizer) Run(ctx context.Context) (pkg.Summary, error) {
	summary := pkg.Summary{DryRun: o.cfg.DryRun}

	scan, err := pkg.ScanSourceDirectory(o.fs, o.cfg.Root, o.exts)
	if err != nil {
		return summary, &pkg.InvocationError{Msg: "cannot scan directory", Err: err}
	}

	o.indexOrganized(scan.MonthDirs, &summary)

	summary.Scanned = len(scan.Candidates)
	o.log.Infof("Found %d image file(s) to organize, %d already organized in %d month folder(s).",
		len(scan.Candidates), summary.Existing, len(scan.MonthDirs))

	o.observer.OnStart(len(scan.Candidates))
	for _, path := range scan.Candidates {
		if err := ctx.Err(); err != nil {
			o.log.Warnf("Run interrupted; %d file(s) left unprocessed.", summary.Scanned-summary.Organized-summary.Duplicates-summary.Skipped)
			o.observer.OnFinish(summary)
			return summary, err
		}
		outcome := o.processSingleFile(path, &summary)
		o.observer.OnFileDone(path, outcome)
	}
	o.observer.OnFinish(summary)
	return summary, nil
}

// indexOrganized loads the names and digests of files already placed in month
// folders, so new copies of them are caught and their names are not reused.
func (o *Organizer) indexOrganized(monthDirs []string, summary *pkg.Summary) {
	for _, key := range monthDirs {
		o.bucket(key)

		files, err := pkg.ScanMonthDirectory(o.fs, o.cfg.Root, key, o.exts)
		if err != nil {
			o.log.Warnf("%v", err)
			continue
		}
		for _, f := range files {
			summary.Existing++
			digest, err := o.hasher.Digest(f)
			if err != nil {
				o.log.Warnf("Could not hash organized file %s: %v. Its copies will not be detected.", f, err)
				continue
			}
			if !o.index.Seed(digest, f) {
				canonical, _ := o.index.Lookup(digest)
				o.log.Debugf("Organized file %s has the same content as %s", f, canonical)
			}
		}
	}
	o.log.Debugf("Indexed %d distinct organized file(s).", o.index.Len())
}

// bucket returns the MonthBucket for key, loading existing names on first use.
func (o *Organizer) bucket(key string) *pkg.MonthBucket {
	if b, ok := o.buckets[key]; ok {
		return b
	}
	b, err := pkg.LoadMonthBucket(o.fs, o.cfg.Root, key)
	if err != nil {
		o.log.Warnf("%v. Name collisions will be detected at move time.", err)
		b = pkg.NewMonthBucket(o.cfg.Root, key)
	}
	o.buckets[key] = b
	return b
}

// processSingleFile hashes, deduplicates, dates and places one file.
func (o *Organizer) processSingleFile(path string, summary *pkg.Summary) Outcome {
	o.log.Debugf("Processing: %s", path)
	p := &photoFile{Path: path, Name: filepath.Base(path)}

	digest, err := o.hasher.Digest(path)
	if err != nil {
		return o.skip(summary, path, err)
	}
	p.Digest = digest
	o.log.Debugf("  - %s: %s", o.hasher.Algorithm(), digest)

	res := o.index.CheckAndRegister(digest, path)
	if res.Duplicate {
		return o.handleDuplicate(p, res.Canonical, summary)
	}

	placed := false
	defer func() {
		if !placed {
			o.index.Forget(digest)
		}
	}()

	p.Resolved, err = o.resolveTimestamp(path)
	if err != nil {
		return o.skip(summary, path, err)
	}
	o.log.Debugf("  - Determined date (%s): %s", p.Resolved.Source, p.Resolved.Time.Format(pkg.CanonicalTimeLayout))

	dest, err := o.place(p)
	if err != nil {
		return o.skip(summary, path, err)
	}

	placed = true
	o.index.Update(digest, dest)
	summary.AddMove(pkg.MoveInfo{From: path, To: dest, Source: p.Resolved.Source})
	if o.cfg.DryRun {
		o.log.Infof("Would move %s -> %s", path, dest)
	} else {
		o.log.Debugf("  - Moved to %s", dest)
	}
	return OutcomeOrganized
}

// resolveTimestamp resolves the capture time and settles uncertain results:
// the operator is asked in interactive mode, otherwise the fallback stands.
func (o *Organizer) resolveTimestamp(path string) (pkg.ResolvedTime, error) {
	ts, err := o.resolver.Resolve(path)
	if err != nil {
		return ts, err
	}
	if ts.Certain() {
		return ts, nil
	}
	if !o.cfg.Interactive {
		o.log.Debugf("  - No capture metadata; using %s %s", ts.Source, ts.Time.Format(pkg.CanonicalTimeLayout))
		return ts, nil
	}

	t, err := o.confirm.ConfirmTimestamp(path, ts)
	if err != nil {
		return ts, fmt.Errorf("timestamp confirmation for %s: %w", path, err)
	}
	if !t.Equal(ts.Time) {
		ts = pkg.ResolvedTime{Time: t, Source: pkg.SourceOperator}
	}
	return ts, nil
}

// place computes the destination in the month bucket and moves the file. A
// destination that turns out to exist on disk is reserved and the next
// sequence number is tried.
func (o *Organizer) place(p *photoFile) (string, error) {
	b := o.bucket(pkg.MonthKey(p.Resolved.Time))
	ext := filepath.Ext(p.Name)

	if !o.cfg.DryRun {
		if _, err := pkg.CreateTargetDirectory(o.fs, o.cfg.Root, p.Resolved.Time); err != nil {
			return "", err
		}
	}

	for {
		name := b.NextName(p.Resolved.Time, ext)
		dest := filepath.Join(b.Dir, name)

		if o.cfg.DryRun {
			b.Reserve(name)
			return dest, nil
		}

		err := pkg.MoveFile(o.fs, p.Path, dest)
		if errors.Is(err, os.ErrExist) {
			o.log.Debugf("  - %s appeared on disk; trying the next sequence number", dest)
			b.Reserve(name)
			continue
		}
		if err != nil {
			return "", err
		}
		b.Reserve(name)
		return dest, nil
	}
}

// handleDuplicate applies the duplicate policy. The file is never renamed or moved.
func (o *Organizer) handleDuplicate(p *photoFile, canonical string, summary *pkg.Summary) Outcome {
	info := pkg.DuplicateInfo{
		KeptFile:      canonical,
		DiscardedFile: p.Path,
		Reason:        fmt.Sprintf("Identical content (%s %s)", o.hasher.Algorithm(), p.Digest),
	}
	o.log.Infof("Duplicate: %s is identical to %s", p.Path, canonical)

	remove := o.cfg.DuplicatePolicy == DeleteDuplicates
	if o.cfg.DuplicatePolicy == AskPerDuplicate && o.cfg.Interactive {
		var err error
		remove, err = o.decide.DeleteDuplicate(p.Path, canonical)
		if err != nil {
			return o.skip(summary, p.Path, fmt.Errorf("duplicate decision for %s: %w", p.Path, err))
		}
	}
	if !remove {
		info.Reason += ", left in place"
		summary.AddDuplicate(info)
		return OutcomeDuplicate
	}

	if err := o.confirmDuplicate(p.Path, canonical); err != nil {
		return o.skip(summary, p.Path, err)
	}

	if o.cfg.DryRun {
		info.Reason += ", would be deleted"
		summary.AddDuplicate(info)
		return OutcomeDuplicate
	}

	if err := o.fs.Remove(p.Path); err != nil {
		return o.skip(summary, p.Path, &pkg.IOError{Op: "delete", Path: p.Path, Err: err})
	}
	info.Reason += ", deleted"
	info.Deleted = true
	summary.AddDuplicate(info)
	return OutcomeDuplicate
}

// confirmDuplicate checks that the canonical copy still exists with the same
// size before anything is deleted. In a dry run the canonical may only be a
// planned destination, so its source is not re-checked.
func (o *Organizer) confirmDuplicate(path, canonical string) error {
	if o.cfg.DryRun {
		return nil
	}
	dupInfo, err := o.fs.Stat(path)
	if err != nil {
		return &pkg.IOError{Op: "stat", Path: path, Err: err}
	}
	canonInfo, err := o.fs.Stat(canonical)
	if err != nil {
		return &pkg.IOError{Op: "stat", Path: canonical, Err: err}
	}
	if dupInfo.Size() != canonInfo.Size() {
		return fmt.Errorf("refusing to delete %s: size differs from %s", path, canonical)
	}
	return nil
}

func (o *Organizer) skip(summary *pkg.Summary, path string, err error) Outcome {
	o.log.Warnf("Skipping %s: %v", path, err)
	summary.AddSkipped(path, err)
	return OutcomeSkipped
}
