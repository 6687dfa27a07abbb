// Package models defines the data structures shared across the mirror pipeline.
package models

// CategoryRecord is one node descriptor from the documentation site's flat
// category listing. A record either groups other records (DocID == 0) or points
// at an actual document (DocID > 0).
type CategoryRecord struct {
	CategoryID int64  `json:"category_id"`
	ParentID   int64  `json:"parent_id"`
	Title      string `json:"title"`
	DocID      int64  `json:"doc_id"`
	UpdateTime int64  `json:"time"`
}

// IsLeaf reports whether this record points at document content.
func (c CategoryRecord) IsLeaf() bool {
	return c.DocID > 0
}

// IsRoot reports whether this record sits at the top of the hierarchy.
func (c CategoryRecord) IsRoot() bool {
	return c.ParentID == 0
}
