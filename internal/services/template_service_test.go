package services

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juliusmarkwei/swift-send/internal/db"
	"github.com/juliusmarkwei/swift-send/internal/models"
)

type templateFixture struct {
	database  *sql.DB
	templates db.TemplateRepository
	contacts  db.ContactRepository
	owner     *models.User
	service   *TemplateService
}

func setupTemplateService(t *testing.T) *templateFixture {
	t.Helper()
	database := db.SetupTestDB(t)
	templates := db.NewTemplateRepository(database)
	contacts := db.NewContactRepository(database)
	return &templateFixture{
		database:  database,
		templates: templates,
		contacts:  contacts,
		owner:     db.SeedTestUser(t, database, "template_owner"),
		service:   NewTemplateService(templates, contacts),
	}
}

func (f *templateFixture) seedContact(t *testing.T, phone string) *models.Contact {
	t.Helper()
	contact := models.NewContact(phone, f.owner.ID)
	require.NoError(t, f.contacts.Create(contact))
	return contact
}

func TestTemplateService_CreateTemplate(t *testing.T) {
	f := setupTemplateService(t)

	template, err := f.service.CreateTemplate(f.owner.ID, &models.CreateTemplateRequest{
		Name:    "welcome",
		Content: "Hi <full_name>",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, template.ID)
	assert.Nil(t, template.LastSent)

	_, err = f.service.CreateTemplate(f.owner.ID, &models.CreateTemplateRequest{
		Name:    "welcome",
		Content: "Other body",
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestTemplateService_UpdateTemplate(t *testing.T) {
	f := setupTemplateService(t)

	template, err := f.service.CreateTemplate(f.owner.ID, &models.CreateTemplateRequest{
		Name:    "welcome",
		Content: "Hi",
	})
	require.NoError(t, err)

	content := "Hi <full_name>"
	updated, err := f.service.UpdateTemplate(template.ID, f.owner.ID, &models.UpdateTemplateRequest{
		Content: &content,
	})
	require.NoError(t, err)
	assert.Equal(t, "Hi <full_name>", updated.Content)
	assert.Equal(t, "welcome", updated.Name)

	_, err = f.service.UpdateTemplate("missing", f.owner.ID, &models.UpdateTemplateRequest{Content: &content})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTemplateService_DeleteTemplate(t *testing.T) {
	f := setupTemplateService(t)

	template, err := f.service.CreateTemplate(f.owner.ID, &models.CreateTemplateRequest{
		Name:    "welcome",
		Content: "Hi",
	})
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteTemplate(template.ID, f.owner.ID))

	_, err = f.service.GetTemplate(template.ID, f.owner.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTemplateService_Associate(t *testing.T) {
	f := setupTemplateService(t)

	template, err := f.service.CreateTemplate(f.owner.ID, &models.CreateTemplateRequest{
		Name:    "welcome",
		Content: "Hi",
	})
	require.NoError(t, err)

	f.seedContact(t, "+233111")
	f.seedContact(t, "+233222")

	result, err := f.service.Associate(template.ID, "+233111,+233222,+233999", f.owner.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{"+233111", "+233222"}, result.Added)
	assert.Empty(t, result.AlreadyAssociated)
	// Unknown numbers are reported, never auto-created
	assert.Equal(t, []string{"+233999"}, result.Unresolved)

	// Associating again moves the pair to AlreadyAssociated without a new row
	again, err := f.service.Associate(template.ID, "+233111", f.owner.ID)
	require.NoError(t, err)
	assert.Empty(t, again.Added)
	assert.Equal(t, []string{"+233111"}, again.AlreadyAssociated)

	count, err := f.templates.AssociationCount(template.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestTemplateService_Disassociate(t *testing.T) {
	f := setupTemplateService(t)

	template, err := f.service.CreateTemplate(f.owner.ID, &models.CreateTemplateRequest{
		Name:    "welcome",
		Content: "Hi",
	})
	require.NoError(t, err)

	f.seedContact(t, "+233111")
	f.seedContact(t, "+233222")

	_, err = f.service.Associate(template.ID, []string{"+233111", "+233222"}, f.owner.ID)
	require.NoError(t, err)

	require.NoError(t, f.service.Disassociate(template.ID, "+233111", f.owner.ID))

	remaining, err := f.service.ListTemplateContacts(template.ID, f.owner.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "+233222", remaining[0].Phone)
}

func TestTemplateService_Disassociate_NotLinked(t *testing.T) {
	f := setupTemplateService(t)

	template, err := f.service.CreateTemplate(f.owner.ID, &models.CreateTemplateRequest{
		Name:    "welcome",
		Content: "Hi",
	})
	require.NoError(t, err)

	f.seedContact(t, "+233111")
	f.seedContact(t, "+233222")

	_, err = f.service.Associate(template.ID, "+233111", f.owner.ID)
	require.NoError(t, err)

	// One linked, one not; nothing is removed
	err = f.service.Disassociate(template.ID, "+233111,+233222", f.owner.ID)
	assert.ErrorIs(t, err, ErrNotAssociated)

	remaining, err := f.service.ListTemplateContacts(template.ID, f.owner.ID)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

func TestTemplateService_ListTemplates_OwnerScoping(t *testing.T) {
	f := setupTemplateService(t)
	other := db.SeedTestUser(t, f.database, "other_owner")

	_, err := f.service.CreateTemplate(f.owner.ID, &models.CreateTemplateRequest{Name: "a", Content: "x"})
	require.NoError(t, err)
	_, err = f.service.CreateTemplate(other.ID, &models.CreateTemplateRequest{Name: "b", Content: "y"})
	require.NoError(t, err)

	mine, err := f.service.ListTemplates(f.owner.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "a", mine[0].Name)
}
