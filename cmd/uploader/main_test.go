package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	authdomain "github.com/Black-And-White-Club/tournament-uploader/app/modules/auth/domain"
	authjwt "github.com/Black-And-White-Club/tournament-uploader/app/modules/auth/infrastructure/jwt"
	"github.com/Black-And-White-Club/tournament-uploader/app/modules/tournament/application/parsers"
	"github.com/Black-And-White-Club/tournament-uploader/config"
)

const sampleFile = `v3
#Game 1
:e:2:u3:Carol
:a:1:u1:Alice

#Final
i:a:1:u1:Alice
:e:2:u2:Bob
`

type cliRun struct {
	out    bytes.Buffer
	errOut bytes.Buffer
}

// run executes the CLI with a config and dotenv file that do not exist, so
// only defaults and the process environment apply.
func run(t *testing.T, stdin string, args ...string) (*cliRun, error) {
	t.Helper()
	t.Setenv("DATABASE_URL", "")
	t.Setenv("NATS_URL", "")

	dir := t.TempDir()
	r := &cliRun{}
	full := append([]string{"uploader", "--config", filepath.Join(dir, "missing.yaml"), "--env-file", filepath.Join(dir, "missing.env")}, args...)
	err := newCLI(strings.NewReader(stdin), &r.out, &r.errOut).Run(full)
	return r, err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseCommand(t *testing.T) {
	path := writeFile(t, "cup", sampleFile)

	r, err := run(t, "", "parse", "--title", "Spring Cup", "--date", "2024-03-01 19:00", "--link", "https://example.com/vod", path)
	require.NoError(t, err)

	out := r.out.String()
	require.Contains(t, out, "Spring Cup (v3) 2024-03-01 19:00")
	require.Contains(t, out, "https://example.com/vod")
	require.Contains(t, out, "#1 Game 1")
	require.Contains(t, out, "#2 Final")
	require.Contains(t, out, "eliminated")

	overall := out[strings.Index(out, "Overall"):]
	lines := strings.Split(strings.TrimSpace(overall), "\n")
	require.Len(t, lines, 4)
	require.Contains(t, lines[1], "Carol")
	require.Contains(t, lines[1], "+3")
	require.Contains(t, lines[1], "win")
	require.Contains(t, lines[2], "Alice")
	require.Contains(t, lines[3], "Bob")
	require.Contains(t, lines[3], "+1")
}

func TestParseCommand_Prompts(t *testing.T) {
	path := writeFile(t, "cup.txt", sampleFile)

	r, err := run(t, "\nPrompted Cup\n2024-05-04 18:30\n\n", "parse", path)
	require.NoError(t, err)
	require.Contains(t, r.out.String(), "Title: ")
	require.Contains(t, r.out.String(), "Prompted Cup (v3) 2024-05-04 18:30")
}

func TestParseCommand_Errors(t *testing.T) {
	t.Run("missing file argument", func(t *testing.T) {
		_, err := run(t, "", "parse", "--no-prompt", "--title", "Cup")
		require.ErrorIs(t, err, errMissingFile)
	})

	t.Run("title required without prompt", func(t *testing.T) {
		path := writeFile(t, "cup", sampleFile)
		_, err := run(t, "", "parse", "--no-prompt", path)
		require.ErrorContains(t, err, "--title")
	})

	t.Run("input closed while prompting", func(t *testing.T) {
		path := writeFile(t, "cup", sampleFile)
		_, err := run(t, "", "parse", path)
		require.Error(t, err)
	})

	t.Run("malformed file", func(t *testing.T) {
		path := writeFile(t, "cup", "v1\n#Final\nbroken\n")
		_, err := run(t, "", "parse", "--no-prompt", "--title", "Cup", path)
		require.ErrorIs(t, err, parsers.ErrMalformedPlayerLine)
		require.ErrorContains(t, err, "line 3")
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := writeFile(t, "cup.csv", sampleFile)
		_, err := run(t, "", "parse", "--no-prompt", "--title", "Cup", path)
		require.ErrorIs(t, err, parsers.ErrUnsupportedFile)
	})
}

func TestExportCommand(t *testing.T) {
	path := writeFile(t, "cup", sampleFile)
	dir := t.TempDir()
	xlsx := filepath.Join(dir, "cup.xlsx")
	chart := filepath.Join(dir, "cup.png")

	r, err := run(t, "", "export", "--no-prompt", "--title", "Cup", "--xlsx", xlsx, "--chart", chart, path)
	require.NoError(t, err)
	require.Contains(t, r.out.String(), "Wrote workbook")
	require.Contains(t, r.out.String(), "Wrote chart")

	data, err := os.ReadFile(chart)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))

	info, err := os.Stat(xlsx)
	require.NoError(t, err)
	require.Positive(t, info.Size())

	_, err = run(t, "", "export", "--no-prompt", "--title", "Cup", path)
	require.ErrorContains(t, err, "nothing to export")
}

func TestUploadCommand_RequiresDatabase(t *testing.T) {
	path := writeFile(t, "cup", sampleFile)
	_, err := run(t, "", "upload", "--no-prompt", "--title", "Cup", path)
	require.ErrorIs(t, err, config.ErrNoDatabase)
}

func TestTokenCommand(t *testing.T) {
	secret := "test-secret-at-least-32-chars-long!!"
	t.Setenv("JWT_SECRET", secret)

	r, err := run(t, "", "token", "--subject", "discord-bot", "--role", "admin", "--ttl", "1h")
	require.NoError(t, err)

	claims, err := authjwt.NewProvider(secret, authjwt.WithAudience(config.Default().JWT.Audience)).ValidateToken(strings.TrimSpace(r.out.String()))
	require.NoError(t, err)
	require.Equal(t, "discord-bot", claims.Subject)
	require.Equal(t, authdomain.RoleAdmin, claims.Role)
	require.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, time.Minute)

	_, err = run(t, "", "token", "--subject", "x", "--role", "owner")
	require.ErrorIs(t, err, authjwt.ErrInvalidRole)
}

func TestTokenCommand_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := run(t, "", "token", "--subject", "x")
	require.ErrorIs(t, err, errNoJWTSecret)
}

func TestDatabaseName(t *testing.T) {
	require.Equal(t, "frolf", databaseName("postgres://u:p@localhost:5432/frolf?sslmode=disable"))
	require.Equal(t, "postgres", databaseName("postgres://u:p@localhost:5432"))
	require.Equal(t, "postgres", databaseName("::not a url"))
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	p := newProgress(&buf, uploadSteps)
	p.step(1, "Parsing %s...", "cup")
	p.step(6, "Done")
	require.Equal(t, "[1/6] Parsing cup...\n[6/6] Done\n", buf.String())
	require.GreaterOrEqual(t, p.elapsed(), time.Duration(0))
}
