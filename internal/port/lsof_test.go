package port

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pythonListener = `COMMAND  PID   USER   FD   TYPE             DEVICE SIZE/OFF NODE NAME
Python  3151 lydell    5u  IPv6 0x75e2d04027e5da91      0t0  TCP *:http-alt (LISTEN)
`

func TestParseLsofOutput(t *testing.T) {
	info, err := ParseLsofOutput(pythonListener)
	require.NoError(t, err)
	require.NotNil(t, info)

	assert.Equal(t, "Python", info.Name)
	assert.Equal(t, uint32(3151), info.PID)
	assert.Equal(t, "lydell", info.User)
}

func TestParseLsofOutput_FirstRowWins(t *testing.T) {
	input := `COMMAND     PID      USER   FD   TYPE             DEVICE SIZE/OFF NODE NAME
nginx      1234      root    6u  IPv4 0x1234567890      0t0  TCP *:80 (LISTEN)
nginx      1234      root    7u  IPv6 0x1234567891      0t0  TCP *:80 (LISTEN)
node       5678   zhengda    8u  IPv6 0x1234567892      0t0  TCP *:80 (LISTEN)
`
	info, err := ParseLsofOutput(input)
	require.NoError(t, err)
	require.NotNil(t, info)

	assert.Equal(t, ProcessInfo{PID: 1234, Name: "nginx", User: "root"}, *info)
}

func TestParseLsofOutput_SkipsBlankLines(t *testing.T) {
	input := "COMMAND PID USER FD TYPE DEVICE SIZE/OFF NODE NAME\n\n   \npostgres 9012 _postgres 9u IPv4 0x1 0t0 TCP 127.0.0.1:5432 (LISTEN)\n"

	info, err := ParseLsofOutput(input)
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "postgres", info.Name)
	assert.Equal(t, "_postgres", info.User)
}

func TestParseLsofOutput_NoRows(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"header only", "COMMAND     PID      USER   FD   TYPE             DEVICE SIZE/OFF NODE NAME\n"},
		{"header without newline", "COMMAND PID USER FD TYPE DEVICE SIZE/OFF NODE NAME"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := ParseLsofOutput(tt.input)
			require.NoError(t, err)
			assert.Nil(t, info)
		})
	}
}

func TestParseLsofOutput_InvalidPID(t *testing.T) {
	tests := []struct {
		name string
		row  string
	}{
		{"word", "java   abc   zhengda   10u  IPv4 0x1  0t0  TCP *:8080 (LISTEN)"},
		{"negative", "java   -1    zhengda   10u  IPv4 0x1  0t0  TCP *:8080 (LISTEN)"},
		{"overflow", "java   4294967296 zhengda 10u IPv4 0x1 0t0 TCP *:8080 (LISTEN)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := ParseLsofOutput("COMMAND PID USER\n" + tt.row + "\n")
			require.ErrorIs(t, err, ErrInvalidPID)
			assert.Nil(t, info)
		})
	}
}

func TestParseLsofOutput_MalformedRow(t *testing.T) {
	info, err := ParseLsofOutput("COMMAND PID USER\njava 3456\n")
	require.ErrorIs(t, err, ErrMalformedRow)
	assert.Nil(t, info)
}

func TestLsofLookup_Command(t *testing.T) {
	runner := &MultiMockCmdRunner{
		Responses: map[string]MockResponse{
			"lsof -nP -iTCP:8080 -sTCP:LISTEN": {Output: []byte(pythonListener)},
		},
	}

	info, err := NewLsofLookup(runner, "").Lookup(context.Background(), 8080)
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "Python", info.Name)
	assert.Equal(t, []string{"lsof -nP -iTCP:8080 -sTCP:LISTEN"}, runner.Calls)
}

func TestLsofLookup_CustomBinary(t *testing.T) {
	runner := &MultiMockCmdRunner{}

	_, err := NewLsofLookup(runner, "/usr/sbin/lsof").Lookup(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"/usr/sbin/lsof -nP -iTCP:0 -sTCP:LISTEN"}, runner.Calls)
}

func TestLsofLookup_NoListener(t *testing.T) {
	// lsof prints nothing and exits 1 when the selection is empty.
	runner := &MockCmdRunner{Err: &exec.ExitError{}}

	info, err := NewLsofLookup(runner, "").Lookup(context.Background(), 65535)
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestLsofLookup_RunError(t *testing.T) {
	runner := &MockCmdRunner{Err: exec.ErrNotFound}

	info, err := NewLsofLookup(runner, "").Lookup(context.Background(), 8080)
	require.Error(t, err)
	assert.True(t, errors.Is(err, exec.ErrNotFound))
	assert.Contains(t, err.Error(), "port 8080")
	assert.Nil(t, info)
}

func TestLsofLookup_InvalidPIDIsFatal(t *testing.T) {
	runner := &MockCmdRunner{Output: []byte("COMMAND PID USER\nnode pid zhengda 8u IPv6\n")}

	info, err := NewLsofLookup(runner, "").Lookup(context.Background(), 3000)
	require.ErrorIs(t, err, ErrInvalidPID)
	assert.Nil(t, info)
}

func TestUnsupported(t *testing.T) {
	for _, p := range []Port{0, 22, 8080, 65535} {
		info, err := Unsupported{}.Lookup(context.Background(), p)
		require.NoError(t, err)
		assert.Nil(t, info, "port %d", p)
	}
}
