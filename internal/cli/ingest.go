package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	exhibitionstore "github.com/dalemusser/exhibithub/internal/app/store/exhibitions"
	"github.com/dalemusser/exhibithub/internal/app/system/auditlog"
	"github.com/dalemusser/exhibithub/internal/app/system/civildate"
	"github.com/dalemusser/exhibithub/internal/app/system/identity"
	"github.com/dalemusser/exhibithub/internal/app/system/inputval"
	"github.com/dalemusser/exhibithub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Entry is one scraped exhibition in an import file.
type Entry struct {
	MuseumID    string `yaml:"museum_id" form:"museum_id" validate:"required,objectid" label:"museum"`
	Title       string `yaml:"title" form:"title" validate:"required" label:"title"`
	StartDate   string `yaml:"start_date" form:"start_date" validate:"omitempty,civildate" label:"start date"`
	EndDate     string `yaml:"end_date" form:"end_date" validate:"omitempty,civildate" label:"end date"`
	OfficialURL string `yaml:"official_url" form:"official_url" validate:"omitempty,httpurl" label:"official URL"`
	ImageURL    string `yaml:"image_url" form:"image_url" validate:"omitempty,httpurl" label:"image URL"`
}

// Outcome of one entry.
const (
	OutcomeCreated        = "created"
	OutcomeAlreadyExists  = "already_exists"
	OutcomeMuseumNotFound = "museum_not_found"
	OutcomeInvalid        = "invalid"
)

// ReadEntries decodes a YAML sequence of entries.
func ReadEntries(r io.Reader) ([]Entry, error) {
	var entries []Entry
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&entries); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode import file: %w", err)
	}
	return entries, nil
}

// ReadEntriesFile opens path and decodes it with ReadEntries.
func ReadEntriesFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadEntries(f)
}

func canonicalMuseumID(s string) (string, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("invalid museum id %q", s)
	}
	return oid.Hex(), nil
}

// attributes checks e and converts it to guard input. The returned message
// is empty when e is importable.
func (e Entry) attributes() (exhibitionstore.Attributes, string) {
	if res := inputval.Validate(e); res.HasErrors() {
		return exhibitionstore.Attributes{}, res.All()
	}
	if !exhibitionstore.UsableTitle(e.Title) {
		return exhibitionstore.Attributes{}, "title is required"
	}
	start, _ := civildate.Parse(e.StartDate)
	end, _ := civildate.Parse(e.EndDate)
	if start != nil && end != nil && end.Before(*start) {
		return exhibitionstore.Attributes{}, "end date must not be before start date"
	}
	return exhibitionstore.Attributes{
		StartDate:   start,
		EndDate:     end,
		OfficialURL: strings.TrimSpace(e.OfficialURL),
		ImageURL:    strings.TrimSpace(e.ImageURL),
		Status:      models.ExhibitionStatusPending,
		Origin:      models.OriginScrape,
	}, ""
}

// Report tallies one import run.
type Report struct {
	BatchID        string
	Created        int
	AlreadyExists  int
	MuseumNotFound int
	Invalid        int
}

// Total is the number of entries seen.
func (r Report) Total() int {
	return r.Created + r.AlreadyExists + r.MuseumNotFound + r.Invalid
}

type creator interface {
	CreateIfAbsent(ctx context.Context, museumID, title string, attrs exhibitionstore.Attributes) (models.Exhibition, error)
}

// Importer runs entries through the creation guard. Existing documents are
// never touched.
type Importer struct {
	Store   creator
	Audit   *auditlog.Logger
	Log     *zap.Logger
	BatchID string
	Out     io.Writer
}

// Run imports entries in order. Per entry failures are tallied and reported;
// only a store error aborts the run, returning the partial report.
func (im *Importer) Run(ctx context.Context, file string, entries []Entry) (Report, error) {
	rep := Report{BatchID: im.BatchID}
	log := im.Log
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("batch_id", im.BatchID))

	for i, e := range entries {
		res, id, err := im.one(ctx, e)
		if err != nil {
			log.Error("import aborted", zap.Int("entry", i+1), zap.Error(err))
			im.Audit.ImportFinished(ctx, im.BatchID, file, rep.Created, rep.AlreadyExists, rep.MuseumNotFound, rep.Invalid)
			return rep, fmt.Errorf("entry %d: %w", i+1, err)
		}
		switch res.result {
		case OutcomeCreated:
			rep.Created++
		case OutcomeAlreadyExists:
			rep.AlreadyExists++
		case OutcomeMuseumNotFound:
			rep.MuseumNotFound++
		default:
			rep.Invalid++
		}
		log.Debug("import entry",
			zap.Int("entry", i+1),
			zap.String("id", id),
			zap.String("result", res.result),
			zap.String("reason", res.reason))
		if im.Out != nil {
			line := fmt.Sprintf("%-16s %s", res.result, id)
			if id == "" {
				line = fmt.Sprintf("%-16s entry %d", res.result, i+1)
			}
			if res.reason != "" {
				line += ": " + res.reason
			}
			fmt.Fprintln(im.Out, line)
		}
	}

	im.Audit.ImportFinished(ctx, im.BatchID, file, rep.Created, rep.AlreadyExists, rep.MuseumNotFound, rep.Invalid)
	log.Info("import finished",
		zap.String("file", file),
		zap.Int("created", rep.Created),
		zap.Int("already_exists", rep.AlreadyExists),
		zap.Int("museum_not_found", rep.MuseumNotFound),
		zap.Int("invalid", rep.Invalid))
	return rep, nil
}

type outcome struct {
	result string
	reason string
}

func (im *Importer) one(ctx context.Context, e Entry) (outcome, string, error) {
	attrs, msg := e.attributes()
	if msg != "" {
		id := ""
		if mid, err := canonicalMuseumID(e.MuseumID); err == nil && exhibitionstore.UsableTitle(e.Title) {
			id = identity.ExhibitionID(mid, e.Title)
		}
		im.Audit.ImportRejected(ctx, im.BatchID, id, e.Title, msg)
		return outcome{OutcomeInvalid, msg}, id, nil
	}

	mid, _ := canonicalMuseumID(e.MuseumID)
	id := identity.ExhibitionID(mid, e.Title)

	created, err := im.Store.CreateIfAbsent(ctx, mid, e.Title, attrs)
	switch {
	case err == nil:
		im.Audit.ImportCreated(ctx, im.BatchID, created)
		return outcome{result: OutcomeCreated}, created.ID, nil
	case errors.Is(err, exhibitionstore.ErrAlreadyExists):
		im.Audit.ImportRejected(ctx, im.BatchID, id, e.Title, err.Error())
		return outcome{OutcomeAlreadyExists, ""}, id, nil
	case errors.Is(err, exhibitionstore.ErrMuseumNotFound):
		im.Audit.ImportRejected(ctx, im.BatchID, id, e.Title, err.Error())
		return outcome{OutcomeMuseumNotFound, ""}, id, nil
	case errors.Is(err, exhibitionstore.ErrTitleRequired):
		im.Audit.ImportRejected(ctx, im.BatchID, id, e.Title, err.Error())
		return outcome{OutcomeInvalid, err.Error()}, id, nil
	default:
		return outcome{}, id, err
	}
}

// DryRun prints the id each valid entry would be stored under and tallies
// the rest as invalid. Nothing is read from or written to the database.
func DryRun(out io.Writer, entries []Entry) Report {
	var rep Report
	for i, e := range entries {
		if _, msg := e.attributes(); msg != "" {
			rep.Invalid++
			fmt.Fprintf(out, "%-16s entry %d: %s\n", OutcomeInvalid, i+1, msg)
			continue
		}
		mid, _ := canonicalMuseumID(e.MuseumID)
		fmt.Fprintln(out, identity.ExhibitionID(mid, e.Title))
	}
	return rep
}
