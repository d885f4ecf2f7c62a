// Package report renders the market pivot, the vendor summary and the context
// signals into a workbook and its text and HTML previews.
package report

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"codeberg.org/mutker/marketintel/internal/aggregate"
	"codeberg.org/mutker/marketintel/internal/errors"
	"codeberg.org/mutker/marketintel/internal/logger"
	"codeberg.org/mutker/marketintel/internal/observation"
)

const (
	DefaultWorkbook = "dashboard_v1.xlsx"
	PreviewFile     = "dashboard_v1_preview.txt"
	HTMLFile        = "index.html"

	DefaultContextRows = 50
	DefaultTopSignals  = 3

	dashboardTitle = "AI Market Intelligence Dashboard"

	noMarketData  = "No market dynamics data available"
	noVendorData  = "No hyperscaler metrics data available"
	noSignalsData = "No context signals data available"

	defaultDirPerm  = 0o755
	defaultFilePerm = 0o644
)

// Input is everything a report is rendered from. A nil pivot or summary
// means the family had no rows.
type Input struct {
	Market      *aggregate.Pivot
	Vendors     *aggregate.Summary
	Signals     []observation.Signal
	GeneratedAt time.Time
}

type Config struct {
	Dir         string
	Workbook    string
	ContextRows int
	TopSignals  int
}

func DefaultConfig() Config {
	return Config{
		Workbook:    DefaultWorkbook,
		ContextRows: DefaultContextRows,
		TopSignals:  DefaultTopSignals,
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()

	switch {
	case c.Dir == "":
		return errFactory.WithMessage(ErrInvalidConfig, "report directory is required")
	case filepath.Ext(c.Workbook) != ".xlsx":
		return errFactory.WithMessage(ErrInvalidConfig, "workbook must be an .xlsx file")
	case c.ContextRows <= 0:
		return errFactory.WithMessage(ErrInvalidConfig, "context rows must be positive")
	case c.TopSignals <= 0:
		return errFactory.WithMessage(ErrInvalidConfig, "top signals must be positive")
	}

	return nil
}

// Artifacts are the paths of a completed render.
type Artifacts struct {
	Workbook string
	Preview  string
	HTML     string
}

// Paths returns the artifact paths in write order.
func (a Artifacts) Paths() []string {
	return []string{a.Workbook, a.Preview, a.HTML}
}

type Renderer struct {
	cfg Config
	log logger.Logger
}

func New(cfg Config, log logger.Logger) (*Renderer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop()
	}

	return &Renderer{cfg: cfg, log: log.With("report")}, nil
}

// Render writes the workbook, the text preview and the HTML dashboard. Every
// artifact is rendered to a temporary file first; nothing is moved into place
// unless all three rendered.
func (r *Renderer) Render(in *Input) (Artifacts, error) {
	errFactory := errors.New()

	out := Artifacts{
		Workbook: filepath.Join(r.cfg.Dir, r.cfg.Workbook),
		Preview:  filepath.Join(r.cfg.Dir, PreviewFile),
		HTML:     filepath.Join(r.cfg.Dir, HTMLFile),
	}

	if err := os.MkdirAll(r.cfg.Dir, defaultDirPerm); err != nil {
		return Artifacts{}, errFactory.Wrap(ErrWrite, err).WithData(artifactError{Artifact: r.cfg.Dir})
	}

	groups := aggregate.TopSignals(in.Signals, r.cfg.TopSignals)

	s := &staging{}
	defer s.discard()

	steps := []struct {
		path  string
		write func(io.Writer) error
	}{
		{out.Workbook, func(w io.Writer) error { return r.writeWorkbook(w, in, groups) }},
		{out.Preview, func(w io.Writer) error { return r.writeText(w, in, groups) }},
		{out.HTML, func(w io.Writer) error { return r.writeHTML(w, in, groups) }},
	}
	for _, step := range steps {
		if err := s.stage(step.path, step.write); err != nil {
			return Artifacts{}, err
		}
		r.log.Debug().Str("path", step.path).Msg("Rendered artifact")
	}

	if err := s.commit(); err != nil {
		return Artifacts{}, err
	}

	r.log.Info().
		Str("workbook", out.Workbook).
		Int("signals", len(in.Signals)).
		Msg("Report written")

	return out, nil
}

// staging holds rendered temporary files until they are renamed into place.
type staging struct {
	tmp    []string
	target []string
}

func (s *staging) stage(path string, write func(io.Writer) error) error {
	errFactory := errors.New()
	data := artifactError{Artifact: filepath.Base(path)}

	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errFactory.Wrap(ErrWrite, err).WithData(data)
	}
	s.tmp = append(s.tmp, f.Name())
	s.target = append(s.target, path)

	if err := write(f); err != nil {
		f.Close()
		if errors.HasCode(err, ErrRender) {
			return err
		}
		return errFactory.Wrap(ErrRender, err).WithData(data)
	}
	if err := f.Chmod(defaultFilePerm); err != nil {
		f.Close()
		return errFactory.Wrap(ErrWrite, err).WithData(data)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return errFactory.Wrap(ErrWrite, err).WithData(data)
	}
	if err := f.Close(); err != nil {
		return errFactory.Wrap(ErrWrite, err).WithData(data)
	}

	return nil
}

func (s *staging) commit() error {
	for i, tmp := range s.tmp {
		if err := os.Rename(tmp, s.target[i]); err != nil {
			return errors.New().Wrap(ErrWrite, err).WithData(artifactError{Artifact: filepath.Base(s.target[i])})
		}
		s.tmp[i] = ""
	}
	return nil
}

func (s *staging) discard() {
	for _, tmp := range s.tmp {
		if tmp != "" {
			os.Remove(tmp)
		}
	}
}
