// Package merge collapses catalogue records describing the same work into
// one MasterWork per dedupe key.
package merge

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"runtime"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/latin-corpus/internal/catalog"
	"github.com/sells-group/latin-corpus/internal/model"
)

// WorkIDPrefix tags every generated work identifier.
const WorkIDPrefix = "wrk_"

const workIDHexLen = 12

// Options configures Deduplicate.
type Options struct {
	// Priority ranks catalogues; nil uses catalog.DefaultPriority.
	Priority []string
	// Workers bounds concurrent group merges; <= 0 uses runtime.NumCPU.
	Workers int
}

// Stats summarizes a deduplication pass.
type Stats struct {
	Records   int `json:"records" yaml:"records"`
	Works     int `json:"works" yaml:"works"`
	Collapsed int `json:"collapsed" yaml:"collapsed"`
}

// WorkID derives the stable identifier for a dedupe key.
func WorkID(authorNorm, titleNorm string, year model.Year) string {
	sum := sha256.Sum256([]byte(authorNorm + "||" + titleNorm + "||" + year.Token()))
	return WorkIDPrefix + hex.EncodeToString(sum[:])[:workIDHexLen]
}

// Deduplicate groups records by dedupe key and merges each group. The
// result is sorted by WorkID and does not depend on input order or worker
// count. An empty input returns an empty, non-nil slice.
func Deduplicate(ctx context.Context, records []model.CatalogRecord, opts Options) ([]model.MasterWork, Stats, error) {
	log := zap.L().With(zap.String("component", "deduplicator"))
	stats := Stats{Records: len(records)}

	if len(records) == 0 {
		log.Warn("no catalogue records to deduplicate")
		return []model.MasterWork{}, stats, nil
	}

	order := opts.Priority
	if order == nil {
		order = catalog.DefaultPriority
	}
	priority := catalog.NewPriority(order)

	groups := make(map[model.DedupeKey][]int)
	keys := make([]model.DedupeKey, 0)
	for i := range records {
		k := records[i].Key()
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], i)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	works := make([]model.MasterWork, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, k := range keys {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			works[i] = mergeGroup(records, groups[k], priority)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, stats, eris.Wrap(err, "merge: deduplicate")
	}

	sort.Slice(works, func(i, j int) bool {
		if works[i].WorkID != works[j].WorkID {
			return works[i].WorkID < works[j].WorkID
		}
		return lessKey(works[i], works[j])
	})

	stats.Works = len(works)
	stats.Collapsed = stats.Records - stats.Works
	log.Info("deduplicated catalogue records",
		zap.Int("records", stats.Records),
		zap.Int("works", stats.Works),
		zap.Int("collapsed", stats.Collapsed),
	)
	return works, stats, nil
}

// mergeGroup picks the representative of one group and unions the
// multi-valued fields of every member into it.
func mergeGroup(records []model.CatalogRecord, members []int, priority catalog.Priority) model.MasterWork {
	best := members[0]
	for _, m := range members[1:] {
		if outranks(&records[m], &records[best], priority) {
			best = m
		}
	}
	rep := records[best]

	ids := model.NewOrderedSet(nil)
	urls := model.NewOrderedSet(nil)
	sources := model.NewOrderedSet(nil)
	hasFacsimile := false
	for _, m := range members {
		r := &records[m]
		ids.Add(r.SourceID)
		urls.Add(r.DigitalFacsimileURLs)
		sources.Add(r.DigitalFacsimileSources)
		hasFacsimile = hasFacsimile || r.HasDigitalFacsimile
	}

	return model.MasterWork{
		WorkID:                  WorkID(rep.AuthorNorm, rep.TitleNorm, rep.ImprintYear),
		SourceCatalog:           rep.SourceCatalog,
		SourceID:                ids.String(),
		Author:                  rep.Author,
		AuthorNorm:              rep.AuthorNorm,
		Title:                   rep.Title,
		TitleNorm:               rep.TitleNorm,
		FullTitle:               rep.FullTitle,
		ImprintPlace:            rep.ImprintPlace,
		ImprintYear:             rep.ImprintYear,
		Language:                rep.Language,
		Subjects:                rep.Subjects,
		DigitalFacsimileURLs:    urls.String(),
		HasDigitalFacsimile:     hasFacsimile,
		DigitalFacsimileSources: sources.String(),
	}
}

// outranks reports whether a should represent a group over b: catalogue
// priority first, then completeness, then field order as a total tie-break.
func outranks(a, b *model.CatalogRecord, priority catalog.Priority) bool {
	if ra, rb := priority.Rank(a.SourceCatalog), priority.Rank(b.SourceCatalog); ra != rb {
		return ra < rb
	}
	if ca, cb := a.Completeness(), b.Completeness(); ca != cb {
		return ca > cb
	}
	fa, fb := tieBreakFields(a), tieBreakFields(b)
	for i := range fa {
		if fa[i] != fb[i] {
			return fa[i] < fb[i]
		}
	}
	return false
}

func tieBreakFields(r *model.CatalogRecord) [9]string {
	return [9]string{
		r.SourceCatalog,
		r.SourceID,
		r.Author,
		r.Title,
		r.FullTitle,
		r.ImprintPlace,
		r.Subjects,
		r.DigitalFacsimileURLs,
		r.Language,
	}
}

func lessKey(a, b model.MasterWork) bool {
	if a.AuthorNorm != b.AuthorNorm {
		return a.AuthorNorm < b.AuthorNorm
	}
	if a.TitleNorm != b.TitleNorm {
		return a.TitleNorm < b.TitleNorm
	}
	return a.ImprintYear.Bucket() < b.ImprintYear.Bucket()
}
