// ABOUTME: Contact CLI commands
// ABOUTME: Human-friendly commands for managing contacts
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/harperreed/mandato/db"
	"github.com/harperreed/mandato/models"
)

// AddContactCommand adds a new contact
func AddContactCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("add-contact", flag.ExitOnError)
	name := fs.String("name", "", "Contact name (required)")
	email := fs.String("email", "", "Email address (required)")
	phone := fs.String("phone", "", "Phone number")
	role := fs.String("role", "", "Role or title")
	language := fs.String("language", "", "Preferred language")
	companyID := fs.String("company-id", "", "Company ID")
	influence := fs.Int("influence", -1, "Influence on the decision, 0-5")
	_ = fs.Parse(args)

	contact := &models.Contact{
		Name:      *name,
		Email:     *email,
		Phone:     *phone,
		Role:      *role,
		Language:  *language,
		CompanyID: *companyID,
	}
	if *influence >= 0 {
		contact.Influence = influence
	}

	if err := db.CreateContact(database, contact); err != nil {
		return reportWriteError(os.Stdout, "create contact", err)
	}

	fmt.Printf("✓ Contact created: %s (ID: %s)\n", contact.Name, contact.ID)
	fmt.Printf("  Email: %s\n", contact.Email)
	if contact.Role != "" {
		fmt.Printf("  Role: %s\n", contact.Role)
	}

	return nil
}

// ListContactsCommand lists contacts
func ListContactsCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("list-contacts", flag.ExitOnError)
	query := fs.String("query", "", "Search by name or email")
	companyID := fs.String("company-id", "", "Filter by company ID")
	limit := fs.Int("limit", 50, "Maximum results")
	_ = fs.Parse(args)

	contacts, err := db.FindContacts(database, *query, *companyID, *limit)
	if err != nil {
		return fmt.Errorf("failed to find contacts: %w", err)
	}

	if len(contacts) == 0 {
		fmt.Println("No contacts found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tEMAIL\tROLE\tID")
	_, _ = fmt.Fprintln(w, "----\t-----\t----\t--")

	for _, contact := range contacts {
		role := contact.Role
		if role == "" {
			role = "-"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", contact.Name, contact.Email, role, contact.ID)
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: %d contact(s)\n", len(contacts))
	return nil
}

// DeleteContactCommand deletes a contact
func DeleteContactCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("delete-contact", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: delete-contact <id>")
	}

	if err := db.DeleteContact(database, fs.Arg(0)); err != nil {
		return err
	}

	fmt.Printf("✓ Deleted contact: %s\n", fs.Arg(0))
	return nil
}
