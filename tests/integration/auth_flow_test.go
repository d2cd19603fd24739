package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestAuthFlow_RegisterLoginMe(t *testing.T) {
	app := setupApp(t)

	// Step 1: Register
	token, userID := app.registerUser(t, "auth@test.com", "password123")
	if token == "" || userID == "" {
		t.Fatal("expected non-empty token and user ID from registration")
	}

	// Step 2: Login with same credentials
	loginToken := app.loginUser(t, "auth@test.com", "password123")
	if loginToken == "" {
		t.Fatal("expected non-empty token from login")
	}

	// Step 3: Fetch own profile
	rec := app.request("GET", "/auth/me", "", loginToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	if result["email"] != "auth@test.com" {
		t.Errorf("expected email auth@test.com, got %v", result["email"])
	}
	if result["id"] != userID {
		t.Errorf("expected id %s, got %v", userID, result["id"])
	}

	// Step 4: Registration also created the system category
	if sysID := app.systemCategoryID(t, loginToken); sysID == "" {
		t.Error("expected a system category after registration")
	}
}

func TestAuthFlow_DuplicateEmail(t *testing.T) {
	app := setupApp(t)

	app.registerUser(t, "dup@test.com", "password123")

	rec := app.request("POST", "/auth/register",
		`{"name":"Other","email":"dup@test.com","password":"password456"}`, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate email, got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	errObj := result["error"].(map[string]interface{})
	if errObj["code"] != "DUPLICATE_EMAIL" {
		t.Errorf("expected DUPLICATE_EMAIL, got %v", errObj["code"])
	}
}

func TestAuthFlow_LoginWrongPassword(t *testing.T) {
	app := setupApp(t)

	app.registerUser(t, "wrongpw@test.com", "password123")

	rec := app.request("POST", "/auth/login",
		`{"email":"wrongpw@test.com","password":"password999"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", rec.Code, rec.Body.String())
	}

	// Unknown email produces the same status and message.
	rec2 := app.request("POST", "/auth/login",
		`{"email":"ghost@test.com","password":"password123"}`, "")
	if rec2.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", rec2.Code, rec2.Body.String())
	}
	if rec.Body.String() != rec2.Body.String() {
		t.Error("expected identical bodies for wrong password and unknown email")
	}
}

func TestAuthFlow_PasswordlessLogin(t *testing.T) {
	app := setupApp(t)

	app.registerUser(t, "codes@test.com", "password123")

	// Step 1: Request a code; the response is generic.
	rec := app.request("POST", "/auth/login-token/request", `{"email":"codes@test.com"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("request code failed: %d %s", rec.Code, rec.Body.String())
	}
	if app.Sender.LastCode == "" || app.Sender.LastTo != "codes@test.com" {
		t.Fatalf("expected a code emailed to codes@test.com, got %q to %q",
			app.Sender.LastCode, app.Sender.LastTo)
	}
	if _, ok := parseJSON(t, rec)["devToken"]; ok {
		t.Error("devToken must not appear without the dev-expose flag")
	}

	// Step 2: Verify the emailed code and receive a session token.
	code := app.Sender.LastCode
	body := fmt.Sprintf(`{"email":"codes@test.com","token":%q}`, code)
	rec = app.request("POST", "/auth/login-token/verify", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("verify failed: %d %s", rec.Code, rec.Body.String())
	}
	token := parseJSON(t, rec)["token"].(string)
	if token == "" {
		t.Fatal("expected a session token")
	}

	// Step 3: The session token works on protected routes.
	rec = app.request("GET", "/auth/me", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// Step 4: The code is consumed; a second verify fails.
	rec = app.request("POST", "/auth/login-token/verify", body, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 on reuse, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAuthFlow_PasswordlessUnknownEmail(t *testing.T) {
	app := setupApp(t)

	app.registerUser(t, "known@test.com", "password123")

	recKnown := app.request("POST", "/auth/login-token/request", `{"email":"known@test.com"}`, "")
	recUnknown := app.request("POST", "/auth/login-token/request", `{"email":"ghost@test.com"}`, "")

	if recKnown.Code != http.StatusOK || recUnknown.Code != http.StatusOK {
		t.Fatalf("expected 200 for both, got %d and %d", recKnown.Code, recUnknown.Code)
	}
	if recKnown.Body.String() != recUnknown.Body.String() {
		t.Error("expected identical responses for known and unknown emails")
	}
}

func TestAuthFlow_SupersededCode(t *testing.T) {
	app := setupApp(t)

	app.registerUser(t, "supersede@test.com", "password123")

	app.request("POST", "/auth/login-token/request", `{"email":"supersede@test.com"}`, "")
	firstCode := app.Sender.LastCode
	app.request("POST", "/auth/login-token/request", `{"email":"supersede@test.com"}`, "")
	secondCode := app.Sender.LastCode

	// The first code no longer works.
	rec := app.request("POST", "/auth/login-token/verify",
		fmt.Sprintf(`{"email":"supersede@test.com","token":%q}`, firstCode), "")
	if firstCode != secondCode && rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a superseded code, got %d", rec.Code)
	}

	// The second one does.
	rec = app.request("POST", "/auth/login-token/verify",
		fmt.Sprintf(`{"email":"supersede@test.com","token":%q}`, secondCode), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for the latest code, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAuthFlow_ChangePassword(t *testing.T) {
	app := setupApp(t)

	token, _ := app.registerUser(t, "changepw@test.com", "password123")

	// Wrong current password is rejected.
	rec := app.request("PATCH", "/auth/password",
		`{"currentPassword":"nope","newPassword":"password456","confirmPassword":"password456"}`, token)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", rec.Code, rec.Body.String())
	}

	// Reusing the current password is rejected.
	rec = app.request("PATCH", "/auth/password",
		`{"currentPassword":"password123","newPassword":"password123","confirmPassword":"password123"}`, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}

	// A proper change succeeds.
	rec = app.request("PATCH", "/auth/password",
		`{"currentPassword":"password123","newPassword":"password456","confirmPassword":"password456"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// The old password stops working, the new one logs in.
	rec = app.request("POST", "/auth/login",
		`{"email":"changepw@test.com","password":"password123"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with old password, got %d", rec.Code)
	}
	app.loginUser(t, "changepw@test.com", "password456")
}

func TestAuthFlow_ProtectedRoutesRequireToken(t *testing.T) {
	app := setupApp(t)

	for _, route := range []struct{ method, path string }{
		{"GET", "/auth/me"},
		{"GET", "/categories"},
		{"GET", "/transactions"},
		{"GET", "/dashboard/summary"},
	} {
		rec := app.request(route.method, route.path, "", "")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401 without token, got %d", route.method, route.path, rec.Code)
		}
	}
}
