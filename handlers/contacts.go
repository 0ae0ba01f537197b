// ABOUTME: Contact MCP tool handlers
// ABOUTME: Implements add_contact and find_contacts tools
package handlers

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/harperreed/mandato/db"
	"github.com/harperreed/mandato/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ContactHandlers struct {
	db *sql.DB
}

func NewContactHandlers(database *sql.DB) *ContactHandlers {
	return &ContactHandlers{db: database}
}

type AddContactInput struct {
	Name      string `json:"name" jsonschema:"Contact's full name (required)"`
	Email     string `json:"email" jsonschema:"Email address (required)"`
	Phone     string `json:"phone,omitempty" jsonschema:"Phone number"`
	Role      string `json:"role,omitempty" jsonschema:"Role or title, e.g. CFO"`
	Language  string `json:"language,omitempty" jsonschema:"Preferred language"`
	CompanyID string `json:"company_id,omitempty" jsonschema:"ID of the contact's company"`
	Influence *int   `json:"influence,omitempty" jsonschema:"Influence on the decision, 0 to 5"`
}

type ContactOutput struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Role      string `json:"role,omitempty"`
	Language  string `json:"language,omitempty"`
	CompanyID string `json:"company_id,omitempty"`
	Influence *int   `json:"influence,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func (h *ContactHandlers) AddContact(_ context.Context, request *mcp.CallToolRequest, input AddContactInput) (*mcp.CallToolResult, ContactOutput, error) {
	if input.CompanyID != "" {
		if _, err := db.GetCompany(h.db, input.CompanyID); err != nil {
			return nil, ContactOutput{}, fmt.Errorf("failed to find company: %w", err)
		}
	}

	contact := &models.Contact{
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		Role:      input.Role,
		Language:  input.Language,
		CompanyID: input.CompanyID,
		Influence: input.Influence,
	}

	if err := db.CreateContact(h.db, contact); err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to create contact: %w", err)
	}

	return nil, contactToOutput(contact), nil
}

type FindContactsInput struct {
	Query     string `json:"query,omitempty" jsonschema:"Search by name or email"`
	CompanyID string `json:"company_id,omitempty" jsonschema:"Only contacts of this company"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Maximum results (default 10)"`
}

type FindContactsOutput struct {
	Contacts []ContactOutput `json:"contacts"`
}

func (h *ContactHandlers) FindContacts(_ context.Context, request *mcp.CallToolRequest, input FindContactsInput) (*mcp.CallToolResult, FindContactsOutput, error) {
	contacts, err := db.FindContacts(h.db, input.Query, input.CompanyID, input.Limit)
	if err != nil {
		return nil, FindContactsOutput{}, fmt.Errorf("failed to find contacts: %w", err)
	}

	out := FindContactsOutput{Contacts: make([]ContactOutput, 0, len(contacts))}
	for i := range contacts {
		out.Contacts = append(out.Contacts, contactToOutput(&contacts[i]))
	}
	return nil, out, nil
}

func contactToOutput(contact *models.Contact) ContactOutput {
	return ContactOutput{
		ID:        contact.ID,
		Name:      contact.Name,
		Email:     contact.Email,
		Phone:     contact.Phone,
		Role:      contact.Role,
		Language:  contact.Language,
		CompanyID: contact.CompanyID,
		Influence: contact.Influence,
		CreatedAt: contact.CreatedAt,
		UpdatedAt: contact.UpdatedAt,
	}
}
