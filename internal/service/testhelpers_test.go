package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"familyhub/internal/database"
	"familyhub/internal/models"
	"familyhub/internal/notify"
	"familyhub/internal/repository"
	"familyhub/internal/security"
)

type sentEmail struct {
	To      string
	Subject string
}

type fakeEmailSender struct {
	sent []sentEmail
	err  error
}

func (f *fakeEmailSender) SendEmail(ctx context.Context, to, subject, text, html string) error {
	f.sent = append(f.sent, sentEmail{To: to, Subject: subject})
	return f.err
}

type fakeSMSSender struct {
	sent []string
	err  error
}

func (f *fakeSMSSender) SendSMS(ctx context.Context, to, body string) error {
	f.sent = append(f.sent, to)
	return f.err
}

// testEnv wires the full service stack over a throwaway SQLite database
type testEnv struct {
	db       *database.DB
	email    *fakeEmailSender
	sms      *fakeSMSSender
	parents  *repository.ParentRepository
	teens    *repository.TeenRepository
	children *repository.ChildRepository

	family          *FamilyService
	merge           *MergeService
	invitations     *InvitationService
	teenInvitations *TeenInvitationService
	messages        *MessageService
	vault           *VaultService
	calendar        *CalendarService
	auth            *AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.Initialize(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	email := &fakeEmailSender{}
	sms := &fakeSMSSender{}
	dispatcher := notify.NewDispatcher(email, sms)

	parents := repository.NewParentRepository(db)
	teens := repository.NewTeenRepository(db)
	children := repository.NewChildRepository(db)
	events := repository.NewEventRepository(db)
	tasks := repository.NewTaskRepository(db)
	mergeRequests := repository.NewMergeRequestRepository(db)
	invitations := repository.NewInvitationRepository(db)
	teenInvitations := repository.NewTeenInvitationRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	vaultRepo := repository.NewVaultRepository(db)

	family := NewFamilyService(parents, teens, children)
	tokens := security.NewJWTManager("test-secret", 24*time.Hour)

	return &testEnv{
		db:       db,
		email:    email,
		sms:      sms,
		parents:  parents,
		teens:    teens,
		children: children,

		family:          family,
		merge:           NewMergeService(db, parents, children, events, mergeRequests, dispatcher),
		invitations:     NewInvitationService(db, parents, invitations, dispatcher, "http://localhost:3000"),
		teenInvitations: NewTeenInvitationService(parents, teens, teenInvitations, dispatcher),
		messages:        NewMessageService(family, parents, teens, children, messageRepo, dispatcher),
		vault:           NewVaultService(family, vaultRepo),
		calendar:        NewCalendarService(family, events, tasks),
		auth:            NewAuthService(parents, teens, tokens, nil),
	}
}

// addParent creates a parent account directly through the repository
func (env *testEnv) addParent(t *testing.T, name, email, familyName string) *models.Parent {
	t.Helper()
	p, err := env.parents.CreateParent(&models.Parent{
		Name:       name,
		Email:      email,
		FamilyName: familyName,
	})
	if err != nil {
		t.Fatalf("failed to create parent: %v", err)
	}
	return p
}

// addChild creates a child profile under the given parent
func (env *testEnv) addChild(t *testing.T, parentID, name string) *models.Child {
	t.Helper()
	c, err := env.children.CreateChild(&models.Child{
		FamilyID: parentID,
		Name:     name,
		Age:      6,
	})
	if err != nil {
		t.Fatalf("failed to create child: %v", err)
	}
	return c
}

// mergeParents runs the full send/approve flow between two parents
func (env *testEnv) mergeParents(t *testing.T, requester, recipient *models.Parent) *models.MergeRequest {
	t.Helper()
	ctx := context.Background()

	req, err := env.merge.SendMergeRequest(ctx, requester.ID, recipient.Email, "")
	if err != nil {
		t.Fatalf("failed to send merge request: %v", err)
	}
	approved, err := env.merge.ApproveMergeRequest(ctx, req.ID, recipient.ID, "")
	if err != nil {
		t.Fatalf("failed to approve merge request: %v", err)
	}
	return approved
}
