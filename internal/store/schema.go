package store

// Schema notes: blog and category trees carry nested-set bounds
// (lft/rgt) so subtree and ancestor filters are single range predicates.
// Datetimes are unix seconds.
const schema = `
CREATE TABLE IF NOT EXISTS blog (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	parent_id INTEGER REFERENCES blog(id),
	lft INTEGER NOT NULL,
	rgt INTEGER NOT NULL,
	code TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'open',
	indexing INTEGER NOT NULL DEFAULT 1,
	secret INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS category (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	blog_id INTEGER REFERENCES blog(id),
	parent_id INTEGER REFERENCES category(id),
	lft INTEGER NOT NULL,
	rgt INTEGER NOT NULL,
	code TEXT NOT NULL,
	name TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'open',
	indexing INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS user (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	blog_id INTEGER NOT NULL REFERENCES blog(id),
	code TEXT NOT NULL,
	name TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'open'
);

CREATE TABLE IF NOT EXISTS entry (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	blog_id INTEGER NOT NULL REFERENCES blog(id),
	category_id INTEGER REFERENCES category(id),
	user_id INTEGER NOT NULL DEFAULT 0,
	code TEXT NOT NULL,
	title TEXT NOT NULL,
	summary TEXT NOT NULL DEFAULT '',
	body TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'open',
	approval TEXT NOT NULL DEFAULT 'approved',
	start_datetime INTEGER NOT NULL DEFAULT 0,
	end_datetime INTEGER NOT NULL DEFAULT 253402300799,
	posted_datetime INTEGER NOT NULL DEFAULT 0,
	updated_datetime INTEGER NOT NULL DEFAULT 0,
	sort INTEGER NOT NULL DEFAULT 0,
	user_sort INTEGER NOT NULL DEFAULT 0,
	category_sort INTEGER NOT NULL DEFAULT 0,
	primary_unit_id INTEGER,
	indexing INTEGER NOT NULL DEFAULT 1,
	members_only INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS tag (
	entry_id INTEGER NOT NULL REFERENCES entry(id),
	blog_id INTEGER NOT NULL REFERENCES blog(id),
	name TEXT NOT NULL,
	sort INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (entry_id, name)
);

CREATE TABLE IF NOT EXISTS field (
	kind TEXT NOT NULL,
	owner_id INTEGER NOT NULL,
	key TEXT NOT NULL,
	value TEXT NOT NULL DEFAULT '',
	sort INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (kind, owner_id, key)
);

CREATE TABLE IF NOT EXISTS unit (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	entry_id INTEGER NOT NULL REFERENCES entry(id),
	kind TEXT NOT NULL,
	sort INTEGER NOT NULL DEFAULT 0,
	hidden INTEGER NOT NULL DEFAULT 0,
	path TEXT NOT NULL DEFAULT '',
	alt TEXT NOT NULL DEFAULT '',
	x INTEGER NOT NULL DEFAULT 0,
	y INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS related (
	entry_id INTEGER NOT NULL REFERENCES entry(id),
	related_id INTEGER NOT NULL REFERENCES entry(id),
	kind TEXT NOT NULL DEFAULT '',
	sort INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (entry_id, related_id, kind)
);

CREATE INDEX IF NOT EXISTS idx_blog_tree ON blog(lft, rgt);
CREATE INDEX IF NOT EXISTS idx_category_tree ON category(lft, rgt);
CREATE INDEX IF NOT EXISTS idx_category_parent ON category(parent_id);
CREATE INDEX IF NOT EXISTS idx_entry_blog ON entry(blog_id, status);
CREATE INDEX IF NOT EXISTS idx_entry_category ON entry(category_id);
CREATE INDEX IF NOT EXISTS idx_entry_posted ON entry(posted_datetime);
CREATE INDEX IF NOT EXISTS idx_tag_name ON tag(name);
CREATE INDEX IF NOT EXISTS idx_field_owner ON field(kind, owner_id);
CREATE INDEX IF NOT EXISTS idx_unit_entry ON unit(entry_id, kind);
`

func (s *Store) initialize() error {
	_, err := s.db.Exec(schema)
	return err
}
