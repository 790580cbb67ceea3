package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/grouprequest/internal/dispatch"
)

func TestNormalizeArgs(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "legacy flags",
			in:   []string{"7", "t-shirts", "-file", "smallGroup.csv", "-write"},
			want: []string{"--file", "smallGroup.csv", "--write", "--", "7", "t-shirts"},
		},
		{
			name: "legacy flag with value",
			in:   []string{"5", "party", "-file=a.csv"},
			want: []string{"--file=a.csv", "--", "5", "party"},
		},
		{
			name: "modern and short flags untouched",
			in:   []string{"5", "party", "--file", "a.csv", "-f", "b.csv", "-w", "-v"},
			want: []string{"--file", "a.csv", "-f", "b.csv", "-w", "-v", "--", "5", "party"},
		},
		{
			name: "negative amount",
			in:   []string{"-5", "refund", "-w"},
			want: []string{"-w", "--", "-5", "refund"},
		},
		{
			name: "negative amount after combined shorthands",
			in:   []string{"-wf", "a.csv", "-2.5", "x"},
			want: []string{"-wf", "a.csv", "--", "-2.5", "x"},
		},
		{
			name: "after double dash",
			in:   []string{"--", "5", "-file"},
			want: []string{"--", "5", "-file"},
		},
		{
			name: "flags only",
			in:   []string{"-v"},
			want: []string{"-v"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newRootCmd(func(context.Context, options) error { return nil })
			assert.Equal(t, tt.want, normalizeArgs(cmd, tt.in))
		})
	}
}

func execute(t *testing.T, args ...string) (options, string, error) {
	t.Helper()
	var got options
	cmd := newRootCmd(func(_ context.Context, opts options) error {
		got = opts
		return nil
	})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(normalizeArgs(cmd, args))
	err := cmd.Execute()
	return got, out.String(), err
}

func TestRootCmdParsesArgs(t *testing.T) {
	opts, _, err := execute(t, "7.5", "t-shirts for event", "-file", "smallGroup.csv", "-write")
	require.NoError(t, err)

	assert.Equal(t, 7.5, opts.amount)
	assert.Equal(t, "t-shirts for event", opts.message)
	assert.Equal(t, "smallGroup.csv", opts.file)
	assert.True(t, opts.write)
}

func TestRootCmdDefaults(t *testing.T) {
	opts, _, err := execute(t, "5", "party pitch")
	require.NoError(t, err)

	assert.Equal(t, "csv/master.csv", opts.file)
	assert.False(t, opts.write)
}

func TestRootCmdNegativeAmount(t *testing.T) {
	opts, _, err := execute(t, "-5", "refund", "-write")
	require.NoError(t, err)

	assert.Equal(t, -5.0, opts.amount)
	assert.Equal(t, "refund", opts.message)
	assert.True(t, opts.write)
}

func TestRootCmdErrors(t *testing.T) {
	t.Run("amount must be numeric", func(t *testing.T) {
		_, _, err := execute(t, "five", "party")
		assert.ErrorContains(t, err, "invalid amount")
	})

	t.Run("message is required", func(t *testing.T) {
		_, _, err := execute(t, "5")
		assert.Error(t, err)
	})
}

func TestRootCmdVersion(t *testing.T) {
	_, out, err := execute(t, "-v")
	require.NoError(t, err)
	assert.Contains(t, out, version)
}

// runEnv isolates config lookups and returns the home and working directories.
func runEnv(t *testing.T) (string, string) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := t.TempDir()
	chdir(t, dir)
	return home, dir
}

func paymentServer(t *testing.T, allowPayments bool) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/payments" && !allowPayments {
			t.Errorf("unexpected payment request")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	t.Cleanup(server.Close)
	t.Setenv("GROUPREQUEST_API_BASE_URL", server.URL)
	t.Setenv("GROUPREQUEST_ACCESS_TOKEN", "test-token")
	return server
}

func writeRecipients(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "group.csv")
	require.NoError(t, os.WriteFile(path, []byte("FIRST_NAME,LAST_NAME,VENMO\nA,B,alice\nC,D,no-account\n"), 0644))
	return path
}

func TestRunInvalidMessageHasNoSideEffects(t *testing.T) {
	home, dir := runEnv(t)
	ledger := filepath.Join(dir, "invalid", "ledger.db")

	var out bytes.Buffer
	err := run(context.Background(), options{
		amount:     5,
		message:    strings.Repeat("x", 2001),
		file:       writeRecipients(t, dir),
		write:      true,
		ledgerPath: ledger,
		in:         strings.NewReader("y\n"),
		out:        &out,
	})

	require.ErrorIs(t, err, dispatch.ErrInvalidMessage)
	assert.NoDirExists(t, filepath.Dir(ledger))
	assert.NoFileExists(t, filepath.Join(home, ".grouprequest", "token"))
	assert.Empty(t, out.String())
}

func TestRunDeclinedWritesNothing(t *testing.T) {
	_, dir := runEnv(t)
	paymentServer(t, false)
	file := writeRecipients(t, dir)
	ledger := filepath.Join(dir, "ledger", "runs.db")
	metricsFile := filepath.Join(dir, "metrics.prom")

	var out bytes.Buffer
	err := run(context.Background(), options{
		amount:      5,
		message:     "dinner",
		file:        file,
		write:       true,
		ledgerPath:  ledger,
		metricsFile: metricsFile,
		in:          strings.NewReader("n\n"),
		out:         &out,
	})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Is this correct?")
	assert.NoDirExists(t, filepath.Dir(ledger))
	assert.NoFileExists(t, metricsFile)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Base(file), entries[0].Name())
}

func TestRunConfirmedRecordsLedger(t *testing.T) {
	_, dir := runEnv(t)
	paymentServer(t, true)
	ledger := filepath.Join(dir, "ledger", "runs.db")

	var out bytes.Buffer
	err := run(context.Background(), options{
		amount:     5,
		message:    "dinner",
		file:       writeRecipients(t, dir),
		ledgerPath: ledger,
		in:         strings.NewReader("y\n"),
		out:        &out,
	})

	require.NoError(t, err)
	assert.FileExists(t, ledger)
	assert.Contains(t, out.String(), "Successful Requests: 1")
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (t.Chdir requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
