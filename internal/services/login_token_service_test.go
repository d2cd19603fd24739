package services

import (
	"testing"
	"time"

	"dashfinance/internal/mailer"
	"dashfinance/internal/middleware"
	"dashfinance/internal/models"
	"dashfinance/internal/testutil"
)

// fakeSender records delivery attempts instead of sending mail.
type fakeSender struct {
	delivered bool
	sentTo    []string
	sentCodes []string
}

func (f *fakeSender) SendLoginCode(to, code string, expiresIn time.Duration) mailer.Result {
	f.sentTo = append(f.sentTo, to)
	f.sentCodes = append(f.sentCodes, code)
	return mailer.Result{Delivered: f.delivered}
}

func TestLoginTokenRequest(t *testing.T) {
	t.Run("issues_and_stores_hash_only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		sender := &fakeSender{delivered: true}
		svc := NewLoginTokenService(db, sender, 6, 10*time.Minute)
		user := testutil.CreateTestUser(t, db)

		issue, err := svc.Request(user.Email)
		testutil.AssertNoError(t, err)
		if issue == nil {
			t.Fatal("expected an issued token for a registered email")
		}
		if len(issue.RawCode) != 6 {
			t.Errorf("expected 6-digit code, got %q", issue.RawCode)
		}
		if !issue.Delivered {
			t.Error("expected Delivered to reflect the sender result")
		}
		if len(sender.sentTo) != 1 || sender.sentTo[0] != user.Email {
			t.Errorf("expected one email to %s, got %v", user.Email, sender.sentTo)
		}

		var stored models.LoginToken
		testutil.AssertNoError(t, db.Where("user_id = ?", user.ID).First(&stored).Error)
		if stored.TokenHash == issue.RawCode {
			t.Error("raw code must never be stored")
		}
		if stored.TokenHash != middleware.HashLoginCode(issue.RawCode) {
			t.Error("stored hash does not match the issued code")
		}
		if stored.UsedAt != nil {
			t.Error("fresh token must be unused")
		}
	})

	t.Run("unknown_email_is_a_no_op", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		sender := &fakeSender{delivered: true}
		svc := NewLoginTokenService(db, sender, 6, 10*time.Minute)

		issue, err := svc.Request("nobody@test.com")
		testutil.AssertNoError(t, err)
		if issue != nil {
			t.Error("expected no issue for an unknown email")
		}
		if len(sender.sentTo) != 0 {
			t.Errorf("expected no email sent, got %v", sender.sentTo)
		}
	})

	t.Run("new_request_supersedes_unused_token", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLoginTokenService(db, &fakeSender{}, 6, 10*time.Minute)
		user := testutil.CreateTestUser(t, db)

		first, err := svc.Request(user.Email)
		testutil.AssertNoError(t, err)
		second, err := svc.Request(user.Email)
		testutil.AssertNoError(t, err)

		var count int64
		testutil.AssertNoError(t, db.Model(&models.LoginToken{}).
			Where("user_id = ? AND used_at IS NULL", user.ID).Count(&count).Error)
		if count != 1 {
			t.Errorf("expected exactly one unused token, got %d", count)
		}

		_, err = svc.Verify(user.Email, first.RawCode)
		testutil.AssertAppError(t, err, "INVALID_LOGIN_TOKEN")

		got, err := svc.Verify(user.Email, second.RawCode)
		testutil.AssertNoError(t, err)
		if got.ID != user.ID {
			t.Errorf("expected user %s, got %s", user.ID, got.ID)
		}
	})
}

func TestLoginTokenVerify(t *testing.T) {
	t.Run("consumes_exactly_once", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLoginTokenService(db, &fakeSender{}, 6, 10*time.Minute)
		user := testutil.CreateTestUser(t, db)

		issue, err := svc.Request(user.Email)
		testutil.AssertNoError(t, err)

		got, err := svc.Verify(user.Email, issue.RawCode)
		testutil.AssertNoError(t, err)
		if got.ID != user.ID {
			t.Errorf("expected user %s, got %s", user.ID, got.ID)
		}

		_, err = svc.Verify(user.Email, issue.RawCode)
		testutil.AssertAppError(t, err, "INVALID_LOGIN_TOKEN")
	})

	t.Run("expired_token", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLoginTokenService(db, &fakeSender{}, 6, 10*time.Minute)
		user := testutil.CreateTestUser(t, db)

		code := "123456"
		testutil.CreateTestLoginToken(t, db, user.ID,
			middleware.HashLoginCode(code), time.Now().Add(-time.Minute))

		_, err := svc.Verify(user.Email, code)
		testutil.AssertAppError(t, err, "INVALID_LOGIN_TOKEN")
	})

	t.Run("wrong_code", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLoginTokenService(db, &fakeSender{}, 6, 10*time.Minute)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.Request(user.Email)
		testutil.AssertNoError(t, err)

		_, err = svc.Verify(user.Email, "000000")
		testutil.AssertAppError(t, err, "INVALID_LOGIN_TOKEN")
	})

	t.Run("unknown_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLoginTokenService(db, &fakeSender{}, 6, 10*time.Minute)

		_, err := svc.Verify("nobody@test.com", "123456")
		testutil.AssertAppError(t, err, "INVALID_LOGIN_TOKEN")
	})

	t.Run("token_is_scoped_to_its_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLoginTokenService(db, &fakeSender{}, 6, 10*time.Minute)
		owner := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)

		issue, err := svc.Request(owner.Email)
		testutil.AssertNoError(t, err)

		_, err = svc.Verify(other.Email, issue.RawCode)
		testutil.AssertAppError(t, err, "INVALID_LOGIN_TOKEN")
	})
}

func TestGenerateNumericCode(t *testing.T) {
	for _, length := range []int{4, 6, 8} {
		code, err := generateNumericCode(length)
		testutil.AssertNoError(t, err)
		if len(code) != length {
			t.Errorf("expected length %d, got %d", length, len(code))
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Errorf("expected digits only, got %q", code)
			}
		}
	}
}
