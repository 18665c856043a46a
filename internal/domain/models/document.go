package models

import "time"

// DocumentType is fixed at creation
type DocumentType string

const (
	DocumentTypeBRD DocumentType = "brd" // Business Requirement Document
	DocumentTypeSRS DocumentType = "srs" // Software Requirement Specification
	DocumentTypeSDD DocumentType = "sdd" // System Design Document
	DocumentTypePO  DocumentType = "po"  // Purchase Order
)

// DocumentTypes lists every supported type in display order
var DocumentTypes = []DocumentType{DocumentTypeBRD, DocumentTypeSRS, DocumentTypeSDD, DocumentTypePO}

// Valid reports whether t is a supported document type
func (t DocumentType) Valid() bool {
	for _, known := range DocumentTypes {
		if t == known {
			return true
		}
	}
	return false
}

// DocumentStatus is the approval state of a document
type DocumentStatus string

const (
	StatusPending      DocumentStatus = "pending"
	StatusApproved     DocumentStatus = "approved"
	StatusNeedsChanges DocumentStatus = "needs_changes"
)

// Valid reports whether s is a known status
func (s DocumentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusNeedsChanges:
		return true
	}
	return false
}

// Document is a generated business document and its review state.
//
// PreviousContent is a one-shot snapshot: it holds the content as it was before
// the first changing edit by an admin or analyst and is never overwritten.
type Document struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Type            DocumentType   `json:"type"`
	Content         string         `json:"content"`
	OriginalNote    string         `json:"originalNote"`
	RefinedNote     *string        `json:"refinedNote"`
	CompanyName     *string        `json:"companyName"`
	ProjectName     *string        `json:"projectName"`
	Status          DocumentStatus `json:"status"`
	ClientMessage   *string        `json:"clientMessage"`
	CreatedAt       time.Time      `json:"createdAt"`
	LastUpdatedAt   *time.Time     `json:"lastUpdatedAt"`
	UpdatedBy       *string        `json:"updatedBy"`
	PreviousContent *string        `json:"previousContent"`
}
