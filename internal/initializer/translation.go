package initializer

import (
	"context"

	"github.com/mesh-intelligence/dlf/internal/defaults"
	"github.com/mesh-intelligence/dlf/pkg/types"
)

// Parent is a freshly inserted primary record awaiting translation shadows.
type Parent struct {
	UID int64
	Key string // Label key, e.g. "metadata.title".
}

// ExpandTranslations writes one shadow row per parent for every language
// except skipLanguageID, one batch per language. Labels that are missing
// in a language fall back to the default language and then to the
// missing-translation placeholder. It returns the number of shadows written.
func ExpandTranslations(ctx context.Context, w types.BatchWriter, table string, pid int64,
	parents []Parent, labels defaults.LabelTable, languages []types.Language, skipLanguageID int64) (int, error) {
	if len(parents) == 0 {
		return 0, nil
	}

	written := 0
	for _, lang := range languages {
		if lang.ID == skipLanguageID {
			continue
		}
		batch := types.NewBatch()
		for _, p := range parents {
			batch.Stage(table, map[string]any{
				"pid":              pid,
				"sys_language_uid": lang.ID,
				"l18n_parent":      p.UID,
				"label":            defaults.LookupLabel(labels, lang.LabelKey, p.Key),
			}, nil)
		}
		res, err := w.WriteBatch(ctx, batch)
		if err != nil {
			return written, err
		}
		written += res.Len()
	}
	return written, nil
}
