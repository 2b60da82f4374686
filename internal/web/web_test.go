package web

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"petwatch/internal/db"
	"petwatch/internal/media"
	"petwatch/internal/model"
	"petwatch/internal/store"
)

const testJWTSecret = "test-secret"

type testApp struct {
	server *httptest.Server
	db     *sql.DB
	client *http.Client
}

func setupTestApp(t *testing.T) *testApp {
	t.Helper()
	database := db.NewTestDB(t)

	mediaStore, err := media.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("creating media store: %v", err)
	}

	router, err := NewRouter(database, testJWTSecret, mediaStore)
	if err != nil {
		t.Fatalf("creating web router: %v", err)
	}

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("creating cookie jar: %v", err)
	}

	return &testApp{
		server: server,
		db:     database,
		client: &http.Client{Jar: jar},
	}
}

// signup creates an account directly in the store.
func (a *testApp) signup(t *testing.T, username, password string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	user, err := store.CreateUser(context.Background(), a.db, username, string(hash))
	if err != nil {
		t.Fatalf("creating user: %v", err)
	}
	return user
}

// login performs a form login and keeps the session cookie in the jar.
func (a *testApp) login(t *testing.T, username, password string) {
	t.Helper()
	resp, err := a.client.PostForm(a.server.URL+"/login", url.Values{
		"username": {username},
		"password": {password},
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	defer resp.Body.Close()

	u, _ := url.Parse(a.server.URL)
	for _, c := range a.client.Jar.Cookies(u) {
		if c.Name == "token" && c.Value != "" {
			return
		}
	}
	t.Fatal("login did not set a session cookie")
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	return string(data)
}

func testJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for x := 0; x < 32; x++ {
		for y := 0; y < 32; y++ {
			img.Set(x, y, color.RGBA{200, 120, 40, 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encoding test JPEG: %v", err)
	}
	return buf.Bytes()
}

// uploadImages posts count copies of a small JPEG to /upload_images/{petID}.
func (a *testApp) uploadImages(t *testing.T, petID int64, count int) *http.Response {
	t.Helper()
	photo := testJPEG(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for i := 0; i < count; i++ {
		fw, err := mw.CreateFormFile("images", fmt.Sprintf("photo-%d.jpg", i))
		if err != nil {
			t.Fatalf("creating form file: %v", err)
		}
		fw.Write(photo)
	}
	mw.Close()

	req, err := http.NewRequest("POST", fmt.Sprintf("%s/upload_images/%d", a.server.URL, petID), &body)
	if err != nil {
		t.Fatalf("building upload request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := a.client.Do(req)
	if err != nil {
		t.Fatalf("upload request: %v", err)
	}
	return resp
}

func TestSignupAndLoginFlow(t *testing.T) {
	app := setupTestApp(t)

	resp, err := app.client.PostForm(app.server.URL+"/signup", url.Values{
		"username": {"alice"},
		"password": {"hunter2"},
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	body := readBody(t, resp)
	if !strings.Contains(body, "Account created") {
		t.Errorf("expected signup confirmation, got page: %.200s", body)
	}

	app.login(t, "alice", "hunter2")

	resp, err = app.client.Get(app.server.URL + "/dashboard")
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	body = readBody(t, resp)
	if !strings.Contains(body, "Hello, alice!") {
		t.Errorf("expected dashboard greeting, got: %.200s", body)
	}
}

func TestSignupDuplicateUsername(t *testing.T) {
	app := setupTestApp(t)
	app.signup(t, "alice", "hunter2")

	resp, err := app.client.PostForm(app.server.URL+"/signup", url.Values{
		"username": {"alice"},
		"password": {"other"},
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	body := readBody(t, resp)
	if !strings.Contains(body, "Username already taken") {
		t.Errorf("expected duplicate-username message, got: %.200s", body)
	}

	n, err := store.CountUsers(context.Background(), app.db)
	if err != nil {
		t.Fatalf("CountUsers: %v", err)
	}
	if n != 1 {
		t.Errorf("expected user table unchanged (1 user), got %d", n)
	}
}

func TestLoginGenericFailureMessage(t *testing.T) {
	app := setupTestApp(t)
	app.signup(t, "alice", "hunter2")

	for _, creds := range [][2]string{
		{"alice", "wrong-password"},
		{"nobody", "hunter2"},
	} {
		resp, err := app.client.PostForm(app.server.URL+"/login", url.Values{
			"username": {creds[0]},
			"password": {creds[1]},
		})
		if err != nil {
			t.Fatalf("login: %v", err)
		}
		body := readBody(t, resp)
		// Wrong password and unknown user must render the same message.
		if !strings.Contains(body, "Invalid credentials") {
			t.Errorf("creds %v: expected generic failure message, got: %.200s", creds, body)
		}
	}
}

func TestDashboardRequiresSession(t *testing.T) {
	app := setupTestApp(t)

	// No redirect following, so the 303 to /login is visible.
	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	resp, err := client.Get(app.server.URL + "/dashboard")
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303 redirect, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/login" {
		t.Errorf("expected redirect to /login, got %q", loc)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	app := setupTestApp(t)
	app.signup(t, "alice", "hunter2")
	app.login(t, "alice", "hunter2")

	resp, err := app.client.Get(app.server.URL + "/logout")
	if err != nil {
		t.Fatalf("logout: %v", err)
	}
	resp.Body.Close()

	// The dashboard should now bounce to the login page.
	resp, err = app.client.Get(app.server.URL + "/dashboard")
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	body := readBody(t, resp)
	if !strings.Contains(body, "Log in") {
		t.Errorf("expected login page after logout, got: %.200s", body)
	}
}

func TestUploadImagesCap(t *testing.T) {
	app := setupTestApp(t)
	user := app.signup(t, "alice", "hunter2")
	app.login(t, "alice", "hunter2")

	ctx := context.Background()
	pet, err := store.CreateLostPet(ctx, app.db, user.ID, "Rex", "")
	if err != nil {
		t.Fatalf("CreateLostPet: %v", err)
	}

	// Pre-fill 45 image rows directly.
	var paths []string
	for i := 0; i < 45; i++ {
		paths = append(paths, fmt.Sprintf("seed-%d.jpg", i))
	}
	if _, err := store.AddPetImages(ctx, app.db, pet.ID, paths); err != nil {
		t.Fatalf("AddPetImages: %v", err)
	}

	// 10 more files exceed the cap: whole request rejected with 400.
	resp := app.uploadImages(t, pet.ID, 10)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for cap overflow, got %d", resp.StatusCode)
	}
	got, _ := store.GetLostPet(ctx, app.db, pet.ID)
	if got.ImageCount != 45 {
		t.Errorf("expected 45 images after rejected upload, got %d", got.ImageCount)
	}

	// 5 more fit exactly.
	resp = app.uploadImages(t, pet.ID, 5)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected success for exact fit, got %d", resp.StatusCode)
	}
	got, _ = store.GetLostPet(ctx, app.db, pet.ID)
	if got.ImageCount != model.MaxImagesPerPet {
		t.Errorf("expected %d images, got %d", model.MaxImagesPerPet, got.ImageCount)
	}
}

func TestUploadImagesUnknownPet(t *testing.T) {
	app := setupTestApp(t)
	app.signup(t, "alice", "hunter2")
	app.login(t, "alice", "hunter2")

	resp := app.uploadImages(t, 9999, 1)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for unknown pet, got %d", resp.StatusCode)
	}
}

func TestUploadRejectsNonImage(t *testing.T) {
	app := setupTestApp(t)
	user := app.signup(t, "alice", "hunter2")
	app.login(t, "alice", "hunter2")

	pet, err := store.CreateLostPet(context.Background(), app.db, user.ID, "Rex", "")
	if err != nil {
		t.Fatalf("CreateLostPet: %v", err)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, _ := mw.CreateFormFile("images", "notes.txt")
	fw.Write([]byte("this is not an image"))
	mw.Close()

	req, _ := http.NewRequest("POST", fmt.Sprintf("%s/upload_images/%d", app.server.URL, pet.ID), &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := app.client.Do(req)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for non-image upload, got %d", resp.StatusCode)
	}

	got, _ := store.GetLostPet(context.Background(), app.db, pet.ID)
	if got.ImageCount != 0 {
		t.Errorf("expected 0 images after rejected upload, got %d", got.ImageCount)
	}
}

func TestShotSubmitCreatesTicket(t *testing.T) {
	app := setupTestApp(t)
	app.signup(t, "alice", "hunter2")
	app.login(t, "alice", "hunter2")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	mw.WriteField("description", "brown terrier near the park")
	mw.Close()

	req, _ := http.NewRequest("POST", app.server.URL+"/shots", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := app.client.Do(req)
	if err != nil {
		t.Fatalf("shot submit: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected success, got %d", resp.StatusCode)
	}

	ctx := context.Background()
	tickets, err := store.ListTickets(ctx, app.db, "")
	if err != nil {
		t.Fatalf("ListTickets: %v", err)
	}
	if len(tickets) != 1 {
		t.Fatalf("expected exactly 1 ticket, got %d", len(tickets))
	}
	if tickets[0].Status != model.StatusUnresolved {
		t.Errorf("expected new ticket unresolved, got %q", tickets[0].Status)
	}
}
