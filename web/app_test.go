package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bfgbuilds/buildmanager/buildmanager/database/repositories"
	"github.com/bfgbuilds/buildmanager/buildmanager/schema"
	"github.com/bfgbuilds/buildmanager/buildmanager/services"
	"github.com/bfgbuilds/buildmanager/web/handlers"
	websvc "github.com/bfgbuilds/buildmanager/web/services"
)

type testEnv struct {
	app      *fiber.App
	webApp   *handlers.WebApp
	uploads  string
	restarts int
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := repositories.NewMemoryUserRepository()
	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.MinCost)
	require.NoError(t, err)
	_, err = users.Create(context.Background(), &schema.UserInput{
		Username: "admin",
		Password: string(hash),
		IsAdmin:  true,
	})
	require.NoError(t, err)

	sessions, err := websvc.NewSessionService("test-secret", false)
	require.NoError(t, err)

	uploads := t.TempDir()
	images, err := services.NewLocalImageStore(uploads)
	require.NoError(t, err)

	env := &testEnv{uploads: uploads}
	env.webApp = &handlers.WebApp{
		Builds:      repositories.NewMemoryBuildRepository(),
		Users:       users,
		BotSettings: repositories.NewMemoryBotSettingsRepository(),
		Sessions:    sessions,
		Images:      images,
		RestartBot: func(context.Context) error {
			env.restarts++
			return nil
		},
	}
	env.app = NewApp(env.webApp, uploads)
	return env
}

// login authenticates as the seeded admin and returns the session cookie.
func (env *testEnv) login(t *testing.T) string {
	t.Helper()

	resp := env.do(t, jsonRequest(http.MethodPost, "/api/login",
		`{"username":"admin","password":"admin"}`, ""))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for _, cookie := range resp.Cookies() {
		if cookie.Name == websvc.SessionCookieName {
			return cookie.Name + "=" + cookie.Value
		}
	}
	t.Fatal("no session cookie in login response")
	return ""
}

func (env *testEnv) do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func jsonRequest(method, target, body, cookie string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func decodeList(t *testing.T, resp *http.Response) []map[string]any {
	t.Helper()
	defer resp.Body.Close()

	var list []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	return list
}

const axeBuildJSON = `{
	"name": "Axe Build",
	"activityType": "Solo PvP",
	"commandAlias": "axe-1",
	"equipment": {"weapon": {"name": "Axe", "tier": "T8"}}
}`

func TestCreateBuild(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)

	resp := env.do(t, jsonRequest(http.MethodPost, "/api/builds", axeBuildJSON, cookie))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, float64(1), body["id"])
	assert.Equal(t, "Axe Build", body["name"])
	// The build tier defaults when the payload omits it.
	assert.Equal(t, "T8", body["tier"])
	assert.Equal(t, body["createdAt"], body["updatedAt"])
}

func TestCreateBuildDuplicateAlias(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)

	resp := env.do(t, jsonRequest(http.MethodPost, "/api/builds", axeBuildJSON, cookie))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, jsonRequest(http.MethodPost, "/api/builds", axeBuildJSON, cookie))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "Command alias already in use", body["message"])

	resp = env.do(t, jsonRequest(http.MethodGet, "/api/builds", "", ""))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeList(t, resp), 1)
}

func TestCreateBuildValidation(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)

	payload := `{
		"name": "",
		"activityType": "Ganking",
		"commandAlias": "Bad Alias!",
		"equipment": {"weapon": {"name": "", "tier": ""}}
	}`
	resp := env.do(t, jsonRequest(http.MethodPost, "/api/builds", payload, cookie))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Validation failed", body["message"])
	fields, ok := body["errors"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "commandAlias")
	assert.Contains(t, fields, "equipment.weapon.name")
	assert.Contains(t, fields, "equipment.weapon.tier")
}

func TestUpdateBuildPartial(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)

	resp := env.do(t, jsonRequest(http.MethodPost, "/api/builds", axeBuildJSON, cookie))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody(t, resp)

	time.Sleep(5 * time.Millisecond)

	resp = env.do(t, jsonRequest(http.MethodPut, "/api/builds/1", `{"tier":"T7"}`, cookie))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeBody(t, resp)

	assert.Equal(t, "T7", updated["tier"])
	assert.Equal(t, created["name"], updated["name"])
	assert.Equal(t, created["commandAlias"], updated["commandAlias"])
	assert.Equal(t, created["createdAt"], updated["createdAt"])

	before, err := time.Parse(time.RFC3339Nano, created["updatedAt"].(string))
	require.NoError(t, err)
	after, err := time.Parse(time.RFC3339Nano, updated["updatedAt"].(string))
	require.NoError(t, err)
	assert.True(t, after.After(before))
}

func TestUpdateBuildAliasConflict(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)

	resp := env.do(t, jsonRequest(http.MethodPost, "/api/builds", axeBuildJSON, cookie))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	second := strings.Replace(axeBuildJSON, "axe-1", "axe-2", 1)
	resp = env.do(t, jsonRequest(http.MethodPost, "/api/builds", second, cookie))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, jsonRequest(http.MethodPut, "/api/builds/2", `{"commandAlias":"axe-1"}`, cookie))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "Command alias already in use", body["message"])
}

func TestDeleteBuild(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)

	resp := env.do(t, jsonRequest(http.MethodPost, "/api/builds", axeBuildJSON, cookie))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, jsonRequest(http.MethodDelete, "/api/builds/1", "", cookie))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "Build deleted successfully", body["message"])

	// Deleting again reports not found.
	resp = env.do(t, jsonRequest(http.MethodDelete, "/api/builds/1", "", cookie))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestDeleteMissingBuild(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)

	resp := env.do(t, jsonRequest(http.MethodDelete, "/api/builds/999", "", cookie))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestListBuildsActivityFilter(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)

	gathering := strings.Replace(
		strings.Replace(axeBuildJSON, "Solo PvP", "Gathering", 1), "axe-1", "sickle-1", 1)
	for _, payload := range []string{axeBuildJSON, gathering} {
		resp := env.do(t, jsonRequest(http.MethodPost, "/api/builds", payload, cookie))
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp := env.do(t, jsonRequest(http.MethodGet, "/api/builds?activityType=Gathering", "", ""))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decodeList(t, resp)
	require.Len(t, list, 1)
	assert.Equal(t, "sickle-1", list[0]["commandAlias"])

	// The filter is exact and case-sensitive.
	resp = env.do(t, jsonRequest(http.MethodGet, "/api/builds?activityType=gathering", "", ""))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decodeList(t, resp))
}

func TestCreateBuildUnauthenticated(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, jsonRequest(http.MethodPost, "/api/builds", axeBuildJSON, ""))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, jsonRequest(http.MethodGet, "/api/builds", "", ""))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decodeList(t, resp))
}

func TestGetBuildInvalidID(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, jsonRequest(http.MethodGet, "/api/builds/abc", "", ""))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "Invalid ID format", body["message"])

	resp = env.do(t, jsonRequest(http.MethodGet, "/api/builds/0", "", ""))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestGetBuildNotFound(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, jsonRequest(http.MethodGet, "/api/builds/42", "", ""))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, jsonRequest(http.MethodPost, "/api/login",
		`{"username":"admin","password":"wrong"}`, ""))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, jsonRequest(http.MethodPost, "/api/login",
		`{"username":"nobody","password":"admin"}`, ""))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, jsonRequest(http.MethodPost, "/api/login",
		`{"username":"admin","password":"admin"}`, ""))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "admin", body["username"])
	assert.Equal(t, true, body["isAdmin"])
	// The password hash never leaves the server.
	assert.NotContains(t, body, "password")
}

func TestCurrentUserAndLogout(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, jsonRequest(http.MethodGet, "/api/user", "", ""))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	cookie := env.login(t)

	resp = env.do(t, jsonRequest(http.MethodGet, "/api/user", "", cookie))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "admin", body["username"])

	resp = env.do(t, jsonRequest(http.MethodPost, "/api/logout", "", cookie))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, jsonRequest(http.MethodGet, "/api/user", "", cookie))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestForgedSessionCookie(t *testing.T) {
	env := newTestEnv(t)

	forged := websvc.SessionCookieName + "=forged-id.Zm9yZ2VkLXNpZw"
	resp := env.do(t, jsonRequest(http.MethodPost, "/api/builds", axeBuildJSON, forged))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestBotSettings(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)

	// Unauthenticated access is rejected.
	resp := env.do(t, jsonRequest(http.MethodGet, "/api/bot-settings", "", ""))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Before anything is stored the defaults come back.
	resp = env.do(t, jsonRequest(http.MethodGet, "/api/bot-settings", "", cookie))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "", body["token"])
	assert.Equal(t, "/", body["prefix"])

	resp = env.do(t, jsonRequest(http.MethodPost, "/api/bot-settings",
		`{"token":"tok","clientId":"123","guildId":"456"}`, cookie))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, "tok", body["token"])
	assert.Equal(t, "/", body["prefix"])
	assert.Equal(t, 1, env.restarts)

	resp = env.do(t, jsonRequest(http.MethodGet, "/api/bot-settings", "", cookie))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, "456", body["guildId"])
}

func TestBotSettingsIncompleteSkipsRestart(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)

	resp := env.do(t, jsonRequest(http.MethodPost, "/api/bot-settings",
		`{"token":"","clientId":""}`, cookie))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	assert.Equal(t, 0, env.restarts)
}

func TestCreateBuildMultipartWithImage(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("data", axeBuildJSON))
	part, err := writer.CreateFormFile("image", "screenshot.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("not-really-a-png"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/builds", &buf)
	req.Header.Set(fiber.HeaderContentType, writer.FormDataContentType())
	req.Header.Set("Cookie", cookie)

	resp := env.do(t, req)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)

	imgURL, _ := body["imgUrl"].(string)
	require.True(t, strings.HasPrefix(imgURL, "/uploads/"), "unexpected imgUrl %q", imgURL)

	stored := filepath.Join(env.uploads, strings.TrimPrefix(imgURL, "/uploads/"))
	data, err := os.ReadFile(stored)
	require.NoError(t, err)
	assert.Equal(t, "not-really-a-png", string(data))
}

func TestCreateBuildRejectsNonImageUpload(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("data", axeBuildJSON))
	part, err := writer.CreateFormFile("image", "payload.exe")
	require.NoError(t, err)
	fmt.Fprint(part, "MZ")
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/builds", &buf)
	req.Header.Set(fiber.HeaderContentType, writer.FormDataContentType())
	req.Header.Set("Cookie", cookie)

	resp := env.do(t, req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "Only image files are allowed", body["message"])
}

func TestDeleteBuildRemovesImage(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("data", axeBuildJSON))
	part, err := writer.CreateFormFile("image", "pic.jpg")
	require.NoError(t, err)
	fmt.Fprint(part, "jpeg-bytes")
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/builds", &buf)
	req.Header.Set(fiber.HeaderContentType, writer.FormDataContentType())
	req.Header.Set("Cookie", cookie)

	resp := env.do(t, req)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	imgURL := body["imgUrl"].(string)
	stored := filepath.Join(env.uploads, strings.TrimPrefix(imgURL, "/uploads/"))
	_, err = os.Stat(stored)
	require.NoError(t, err)

	resp = env.do(t, jsonRequest(http.MethodDelete, "/api/builds/1", "", cookie))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	_, err = os.Stat(stored)
	assert.True(t, os.IsNotExist(err))
}

func multipartRequest(t *testing.T, method, target, data, filename, content, cookie string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("data", data))
	if filename != "" {
		part, err := writer.CreateFormFile("image", filename)
		require.NoError(t, err)
		fmt.Fprint(part, content)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(fiber.HeaderContentType, writer.FormDataContentType())
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	return req
}

func (env *testEnv) uploadedFiles(t *testing.T) []string {
	t.Helper()

	entries, err := os.ReadDir(env.uploads)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestUpdateBuildReplacesImage(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)

	resp := env.do(t, multipartRequest(t, http.MethodPost, "/api/builds",
		axeBuildJSON, "old.png", "old-bytes", cookie))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody(t, resp)
	oldURL := created["imgUrl"].(string)
	oldFile := filepath.Join(env.uploads, strings.TrimPrefix(oldURL, "/uploads/"))
	_, err := os.Stat(oldFile)
	require.NoError(t, err)

	resp = env.do(t, multipartRequest(t, http.MethodPut, "/api/builds/1",
		`{}`, "new.png", "new-bytes", cookie))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeBody(t, resp)
	newURL := updated["imgUrl"].(string)
	assert.NotEqual(t, oldURL, newURL)

	// The replaced file is gone, only the new one remains.
	_, err = os.Stat(oldFile)
	assert.True(t, os.IsNotExist(err))
	newFile := filepath.Join(env.uploads, strings.TrimPrefix(newURL, "/uploads/"))
	data, err := os.ReadFile(newFile)
	require.NoError(t, err)
	assert.Equal(t, "new-bytes", string(data))
}

func TestUpdateBuildRejectedKeepsImage(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)

	resp := env.do(t, multipartRequest(t, http.MethodPost, "/api/builds",
		axeBuildJSON, "old.png", "old-bytes", cookie))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody(t, resp)
	oldURL := created["imgUrl"].(string)

	// An invalid payload rejects the whole update, including the new upload.
	resp = env.do(t, multipartRequest(t, http.MethodPut, "/api/builds/1",
		`{"name":""}`, "new.png", "new-bytes", cookie))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, jsonRequest(http.MethodGet, "/api/builds/1", "", ""))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, oldURL, body["imgUrl"])

	oldFile := filepath.Join(env.uploads, strings.TrimPrefix(oldURL, "/uploads/"))
	_, err := os.Stat(oldFile)
	assert.NoError(t, err)
	// The rejected upload was discarded.
	assert.Len(t, env.uploadedFiles(t), 1)
}

func TestUpdateBuildAliasConflictDiscardsUpload(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)

	resp := env.do(t, jsonRequest(http.MethodPost, "/api/builds", axeBuildJSON, cookie))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	second := strings.Replace(axeBuildJSON, "axe-1", "axe-2", 1)
	resp = env.do(t, jsonRequest(http.MethodPost, "/api/builds", second, cookie))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, multipartRequest(t, http.MethodPut, "/api/builds/2",
		`{"commandAlias":"axe-1"}`, "new.png", "new-bytes", cookie))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	assert.Empty(t, env.uploadedFiles(t))
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t)
	running := false
	env.webApp.BotRunning = func() bool { return running }

	resp := env.do(t, jsonRequest(http.MethodGet, "/health", "", ""))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "ok", body["database"])
	assert.Equal(t, "offline", body["bot"])

	running = true
	resp = env.do(t, jsonRequest(http.MethodGet, "/health", "", ""))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, "online", body["bot"])
}

func TestHealthCheckStoreUnreachable(t *testing.T) {
	env := newTestEnv(t)
	env.webApp.CheckStore = func(context.Context) error {
		return fmt.Errorf("connection refused")
	}

	resp := env.do(t, jsonRequest(http.MethodGet, "/health", "", ""))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, "unavailable", body["database"])
}
