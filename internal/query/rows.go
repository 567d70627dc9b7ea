package query

import (
	"database/sql"
	"time"

	"github.com/plumecms/plume/internal/model"
)

// RenderContext tags which listing variant a row is built for. A single
// row builder branches on the context instead of one builder type per
// variant.
type RenderContext int

const (
	// ContextList is the standard published listing.
	ContextList RenderContext = iota
	// ContextTrash lists trashed entries for restoration; secondary
	// associations beyond tags are not attached.
	ContextTrash
	// ContextAPI is the machine-readable shape: every loaded category
	// attached, body included.
	ContextAPI
)

// Row is one enriched output row: the primary entry merged with its
// share of the eager-loaded data. Parts not applicable to the render
// context stay zero.
type Row struct {
	Entry          model.Entry
	Tags           []model.Tag
	Fields         []model.Field
	UserFields     []model.Field
	BlogFields     []model.Field
	CategoryFields []model.Field
	SubCategories  []model.Category
	Related        []model.Entry
	Image          *model.Image
}

// buildRow merges one raw entry with the eager-loaded maps. Every lookup
// is O(1); the loader already indexed each category by its owning id.
func buildRow(e model.Entry, loaded *Loaded, rc RenderContext) Row {
	row := Row{Entry: e, Tags: loaded.Tags[e.ID]}
	if rc == ContextTrash {
		return row
	}

	row.Fields = loaded.EntryFields[e.ID]
	row.UserFields = loaded.UserFields[e.UserID]
	row.BlogFields = loaded.BlogFields[e.BlogID]
	if e.CategoryID != nil {
		row.CategoryFields = loaded.CategoryFields[*e.CategoryID]
		row.SubCategories = loaded.SubCategories[*e.CategoryID]
	}
	row.Related = loaded.Related[e.ID]
	if img, ok := loaded.MainImage[e.ID]; ok {
		row.Image = &img
	}

	if rc != ContextAPI {
		// The listing shape omits the full body; callers fetch it through
		// the identity filter when they need it.
		row.Entry.Body = ""
	}
	return row
}

// scanEntry reads one row of the entryColumns projection. Leading extra
// columns (the owning id of a batched lookup) scan into prefix; trailing
// extras (a surfaced field-sort value) into suffix.
func scanEntry(rows *sql.Rows, prefix, suffix []any) (model.Entry, error) {
	var e model.Entry
	var categoryID, primaryUnitID sql.NullInt64
	var start, end, posted, updated int64

	dest := append(prefix,
		&e.ID, &e.BlogID, &categoryID, &e.UserID, &e.Code,
		&e.Title, &e.Summary, &e.Body, &e.Status, &e.Approval,
		&start, &end, &posted, &updated,
		&e.Sort, &e.UserSort, &e.CategorySort,
		&primaryUnitID, &e.Indexing, &e.MembersOnly,
	)
	dest = append(dest, suffix...)
	if err := rows.Scan(dest...); err != nil {
		return model.Entry{}, err
	}

	if categoryID.Valid {
		e.CategoryID = &categoryID.Int64
	}
	if primaryUnitID.Valid {
		e.PrimaryUnitID = &primaryUnitID.Int64
	}
	e.Start = time.Unix(start, 0).UTC()
	e.End = time.Unix(end, 0).UTC()
	e.Posted = time.Unix(posted, 0).UTC()
	e.Updated = time.Unix(updated, 0).UTC()
	return e, nil
}
