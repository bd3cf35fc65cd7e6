package e2e_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hike-12/BharatAI/internal/api"
	"github.com/Hike-12/BharatAI/internal/factory"
	"github.com/Hike-12/BharatAI/internal/services/auth"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
	tokenFile  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(projectRoot, "bin", "bharatai-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/bharatai")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	// Create temp token file
	tokenFile := filepath.Join(t.TempDir(), "token")

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		tokenFile:  tokenFile,
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token-file", r.tokenFile,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func (r *cliRunner) runWithToken(token string, args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token", token,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	server   *http.Server
	addr     string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	// Create application
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	app, err := factory.New(context.Background(), factory.Config{
		Logger:     logger,
		AuthConfig: auth.Config{TokenSecret: "e2e-test-secret"},
	})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:        logger,
		AuthService:   app.AuthService,
		CourseService: app.CourseService,
		AccessService: app.AccessService,
		Tracker:       app.ProgressTracker,
		Engine:        app.AchievementEngine,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server
	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	// Wait for server to be ready
	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		server: server,
		addr:   serverURL,
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// Response types for JSON parsing
type authResponse struct {
	Token string `json:"token"`
	User  struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
		Role  string `json:"role"`
	} `json:"user"`
}

type courseResponse struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Visibility    string `json:"visibility"`
	Code          string `json:"code"`
	TotalSections int    `json:"total_sections"`
}

type enrollmentResponse struct {
	ID       string `json:"id"`
	CourseID string `json:"course_id"`
}

type progressEventResponse struct {
	Progress struct {
		SectionsCompleted int     `json:"sections_completed"`
		PercentComplete   float64 `json:"percent_complete"`
		Completed         bool    `json:"completed"`
	} `json:"progress"`
	NewlyUnlocked []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"newly_unlocked"`
}

type healthResponse struct {
	Status string `json:"status"`
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	var resp healthResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_AuthCommands(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Signup
	output, err := cli.run("auth", "signup",
		"--email", "alice@example.com", "--pass", "secret123",
		"--name", "Alice", "--role", "student")
	require.NoError(t, err, "output: %s", output)

	var authResp authResponse
	require.NoError(t, json.Unmarshal([]byte(output), &authResp))
	assert.Equal(t, "alice@example.com", authResp.User.Email)
	assert.NotEmpty(t, authResp.Token)

	// Get me (token should be saved in token file)
	output, err = cli.run("auth", "me")
	require.NoError(t, err, "output: %s", output)

	var user struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &user))
	assert.Equal(t, authResp.User.ID, user.ID)

	// Login again
	output, err = cli.run("auth", "login",
		"--email", "alice@example.com", "--pass", "secret123")
	require.NoError(t, err, "output: %s", output)

	var loginResp authResponse
	require.NoError(t, json.Unmarshal([]byte(output), &loginResp))
	assert.Equal(t, authResp.User.ID, loginResp.User.ID)
}

func TestCLI_CourseFlow(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Teacher account
	output, err := cli.run("auth", "signup",
		"--email", "teacher@example.com", "--pass", "secret123",
		"--name", "Teacher", "--role", "teacher")
	require.NoError(t, err, "output: %s", output)

	var teacherAuth authResponse
	require.NoError(t, json.Unmarshal([]byte(output), &teacherAuth))

	// Create a private course
	output, err = cli.runWithToken(teacherAuth.Token, "course", "create",
		"--title", "Go Basics", "--visibility", "private", "--pass", "course-secret",
		"--content", "content/go-basics", "--sections", "3")
	require.NoError(t, err, "output: %s", output)

	var course courseResponse
	require.NoError(t, json.Unmarshal([]byte(output), &course))
	assert.Len(t, course.Code, 8)

	// Student account
	output, err = cli.run("auth", "signup",
		"--email", "student@example.com", "--pass", "secret123",
		"--name", "Student", "--role", "student")
	require.NoError(t, err, "output: %s", output)

	var studentAuth authResponse
	require.NoError(t, json.Unmarshal([]byte(output), &studentAuth))

	// Enroll with the shared code
	output, err = cli.runWithToken(studentAuth.Token, "enroll",
		"--code", course.Code, "--pass", "course-secret")
	require.NoError(t, err, "output: %s", output)

	var enrollment enrollmentResponse
	require.NoError(t, json.Unmarshal([]byte(output), &enrollment))
	assert.Equal(t, course.ID, enrollment.CourseID)

	// Work through every section
	var last progressEventResponse
	for section := 1; section <= course.TotalSections; section++ {
		output, err = cli.runWithToken(studentAuth.Token, "progress", "section", course.ID,
			"--section", strconv.Itoa(section))
		require.NoError(t, err, "output: %s", output)
		require.NoError(t, json.Unmarshal([]byte(output), &last))
	}

	assert.True(t, last.Progress.Completed)
	assert.Equal(t, course.TotalSections, last.Progress.SectionsCompleted)

	unlockedIDs := make([]string, 0, len(last.NewlyUnlocked))
	for _, a := range last.NewlyUnlocked {
		unlockedIDs = append(unlockedIDs, a.ID)
	}
	assert.Contains(t, unlockedIDs, "first-course-complete")

	// Wrong course password is rejected
	output, err = cli.runWithToken(studentAuth.Token, "enroll",
		"--code", course.Code, "--pass", "wrong")
	_ = output
	assert.Error(t, err)
}
