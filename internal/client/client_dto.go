package client

const (
	NoteCategoryGeneral  = "general"
	NoteCategoryCare     = "care"
	NoteCategoryIncident = "incident"
	NoteCategorySystem   = "system"
)

type CreateClientRequest struct {
	FullName         string `json:"full_name" binding:"required"`
	AddressLine      string `json:"address_line"`
	Postcode         string `json:"postcode"`
	Phone            string `json:"phone"`
	EmergencyContact string `json:"emergency_contact"`
	CareRequirements string `json:"care_requirements"`
}

type UpdateClientRequest struct {
	FullName         string `json:"full_name" binding:"required"`
	AddressLine      string `json:"address_line"`
	Postcode         string `json:"postcode"`
	Phone            string `json:"phone"`
	EmergencyContact string `json:"emergency_contact"`
	CareRequirements string `json:"care_requirements"`
	IsActive         *bool  `json:"is_active" binding:"required"`
}

type AddNoteRequest struct {
	Category string `json:"category" binding:"required,oneof=general care incident system"`
	Body     string `json:"body" binding:"required"`
}

type ClientResponse struct {
	ID               string `json:"id"`
	BranchID         string `json:"branch_id"`
	FullName         string `json:"full_name"`
	AddressLine      string `json:"address_line,omitempty"`
	Postcode         string `json:"postcode,omitempty"`
	Phone            string `json:"phone,omitempty"`
	EmergencyContact string `json:"emergency_contact,omitempty"`
	CareRequirements string `json:"care_requirements,omitempty"`
	IsActive         bool   `json:"is_active"`
}

type NoteResponse struct {
	ID        string `json:"id"`
	ClientID  string `json:"client_id"`
	AuthorID  string `json:"author_id"`
	Category  string `json:"category"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"`
}
