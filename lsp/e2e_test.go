// Copyright © 2024 The vuehelper authors

package lsp

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// jsonRPCRequest builds a JSON-RPC 2.0 request.
func jsonRPCRequest(id int, method string, params any) []byte {
	msg := map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  method,
		"params":  params,
	}
	b, _ := json.Marshal(msg)
	return b
}

// jsonRPCNotification builds a JSON-RPC 2.0 notification (no id).
func jsonRPCNotification(method string, params any) []byte {
	msg := map[string]any{
		"jsonrpc": "2.0",
		"method":  method,
		"params":  params,
	}
	b, _ := json.Marshal(msg)
	return b
}

// lspMessage wraps JSON content with the LSP Content-Length header.
func lspMessage(content []byte) []byte {
	return fmt.Appendf(nil, "Content-Length: %d\r\n\r\n%s", len(content), content)
}

// readLSPMessage reads a single LSP message from a buffered reader.
// Returns the parsed JSON as a map.
func readLSPMessage(t *testing.T, r *bufio.Reader) map[string]any {
	t.Helper()

	// Read headers until blank line.
	var contentLength int
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("failed to read LSP header: %v", err)
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		if val, ok := strings.CutPrefix(line, "Content-Length: "); ok {
			n, err := strconv.Atoi(val)
			require.NoError(t, err, "parsing Content-Length")
			contentLength = n
		}
	}
	require.Greater(t, contentLength, 0, "Content-Length must be positive")

	// Read content body.
	body := make([]byte, contentLength)
	_, err := io.ReadFull(r, body)
	require.NoError(t, err, "reading message body")

	var msg map[string]any
	require.NoError(t, json.Unmarshal(body, &msg), "parsing JSON body")
	return msg
}

// readResponse reads LSP messages until a response with the given id appears.
// Returns the response and any notifications received along the way.
func readResponse(t *testing.T, r *bufio.Reader, id int) (map[string]any, []map[string]any) {
	t.Helper()
	var notifications []map[string]any
	deadline := time.After(10 * time.Second)
	for {
		select {
		case <-deadline:
			t.Fatalf("timeout waiting for response id=%d", id)
		default:
		}
		msg := readLSPMessage(t, r)
		// If this message has the expected id, it's our response.
		if msgID, ok := msg["id"]; ok {
			var msgIDFloat float64
			switch v := msgID.(type) {
			case float64:
				msgIDFloat = v
			case json.Number:
				f, _ := v.Float64()
				msgIDFloat = f
			}
			if int(msgIDFloat) == id {
				return msg, notifications
			}
		}
		// Otherwise it's a notification (no id, or different id).
		notifications = append(notifications, msg)
	}
}

// e2eServer starts an LSP server on a random TCP port and returns the
// connection and a cleanup function.
func e2eServer(t *testing.T) (net.Conn, func()) {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/tmp/e2e-test/UserCard.vue", []byte("<template></template>\n"), 0o644))
	srv := New(WithFs(fs))

	// Find a free port.
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	_ = listener.Close()

	// Start the server in the background.
	done := make(chan error, 1)
	go func() {
		done <- srv.RunTCP(addr)
	}()

	// Give server a moment to start listening, then connect.
	var conn net.Conn
	for i := 0; i < 50; i++ {
		conn, err = net.Dial("tcp", addr)
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	require.NoError(t, err, "failed to connect to LSP server at %s", addr)

	cleanup := func() {
		_ = conn.Close()
	}

	return conn, cleanup
}

// send writes an LSP message to the connection.
func send(t *testing.T, conn net.Conn, data []byte) {
	t.Helper()
	_, err := conn.Write(lspMessage(data))
	require.NoError(t, err, "writing LSP message")
}

const e2eComponent = `<template>
  <div>
    <el-button type="" @click="save"></el-button>
    <user-card></user-card>
    <el-
  </div>
</template>

<script>
import UserCard from './UserCard.vue'
export default {
  methods: {
    save() {}
  }
}
</script>
`

// initialize sends initialize and initialized and returns the result.
func initialize(t *testing.T, conn net.Conn, reader *bufio.Reader, options any) map[string]any {
	t.Helper()
	send(t, conn, jsonRPCRequest(1, "initialize", map[string]any{
		"capabilities":          map[string]any{},
		"rootUri":               "file:///tmp/e2e-test",
		"initializationOptions": options,
	}))
	resp, _ := readResponse(t, reader, 1)
	require.Nil(t, resp["error"], "initialize should not error")
	send(t, conn, jsonRPCNotification("initialized", map[string]any{}))
	return resp["result"].(map[string]any)
}

func openComponent(t *testing.T, conn net.Conn, uri, languageID, text string) {
	t.Helper()
	send(t, conn, jsonRPCNotification("textDocument/didOpen", map[string]any{
		"textDocument": map[string]any{
			"uri":        uri,
			"languageId": languageID,
			"version":    1,
			"text":       text,
		},
	}))
	// Give the server a moment to process the notification.
	time.Sleep(50 * time.Millisecond)
}

// items extracts completion items from a response, nil for a null result.
func items(t *testing.T, resp map[string]any) []map[string]any {
	t.Helper()
	require.Nil(t, resp["error"], "request should not error")
	if resp["result"] == nil {
		return nil
	}
	var out []map[string]any
	for _, item := range resp["result"].([]any) {
		out = append(out, item.(map[string]any))
	}
	return out
}

func itemLabels(list []map[string]any) []string {
	labels := make([]string, len(list))
	for i, item := range list {
		labels[i] = item["label"].(string)
	}
	return labels
}

func completionAt(t *testing.T, conn net.Conn, reader *bufio.Reader, id int, uri string, line, char int) []map[string]any {
	t.Helper()
	send(t, conn, jsonRPCRequest(id, "textDocument/completion", map[string]any{
		"textDocument": map[string]any{"uri": uri},
		"position":     map[string]any{"line": line, "character": char},
	}))
	resp, _ := readResponse(t, reader, id)
	return items(t, resp)
}

func TestE2E_FullLifecycle(t *testing.T) {
	conn, cleanup := e2eServer(t)
	defer cleanup()

	reader := bufio.NewReader(conn)
	testURI := "file:///tmp/e2e-test/App.vue"

	// --- Step 1: Initialize with client settings ---
	result := initialize(t, conn, reader, map[string]any{
		"vuehelper": map[string]any{"quotes": "double"},
	})
	caps := result["capabilities"].(map[string]any)
	assert.NotNil(t, caps["hoverProvider"], "should have hover")
	assert.NotNil(t, caps["definitionProvider"], "should have definition")
	completion := caps["completionProvider"].(map[string]any)
	assert.Contains(t, completion["triggerCharacters"], "<")
	assert.Contains(t, completion["triggerCharacters"], "@")
	assert.Contains(t, completion["triggerCharacters"], " ")

	serverInfo := result["serverInfo"].(map[string]any)
	assert.Equal(t, "vuehelper", serverInfo["name"])

	// --- Step 2: Open document ---
	openComponent(t, conn, testURI, "vue", e2eComponent)

	// --- Step 3: Attribute value completion inside type="" ---
	list := completionAt(t, conn, reader, 2, testURI, 2, 21)
	assert.Equal(t, []string{"primary", "success", "warning", "danger", "info", "text"}, itemLabels(list))
	assert.Equal(t, float64(12), list[0]["kind"], "value kind")

	// --- Step 4: Tag completion after "<el-" ---
	list = completionAt(t, conn, reader, 3, testURI, 4, 8)
	require.NotEmpty(t, list)
	assert.Equal(t, "el-button", list[0]["label"])
	assert.Equal(t, `el-button type="$1"></el-button>`, list[0]["insertText"], "double quotes from initializationOptions")
	assert.Equal(t, float64(2), list[0]["insertTextFormat"], "snippet format")
	assert.Equal(t, "0100el-button", list[0]["sortText"])

	// --- Step 5: Hover on the tag name ---
	send(t, conn, jsonRPCRequest(4, "textDocument/hover", map[string]any{
		"textDocument": map[string]any{"uri": testURI},
		"position":     map[string]any{"line": 2, "character": 7},
	}))
	hoverResp, _ := readResponse(t, reader, 4)
	require.NotNil(t, hoverResp["result"], "hover should return a result")
	hoverContents := hoverResp["result"].(map[string]any)["contents"].(map[string]any)
	assert.Equal(t, "markdown", hoverContents["kind"])
	assert.Contains(t, hoverContents["value"], "**el-button**")

	// --- Step 6: Definition of the click handler ---
	send(t, conn, jsonRPCRequest(5, "textDocument/definition", map[string]any{
		"textDocument": map[string]any{"uri": testURI},
		"position":     map[string]any{"line": 2, "character": 33},
	}))
	defResp, _ := readResponse(t, reader, 5)
	require.NotNil(t, defResp["result"], "definition should return a result")
	defResult := defResp["result"].(map[string]any)
	assert.Equal(t, testURI, defResult["uri"])
	defStart := defResult["range"].(map[string]any)["start"].(map[string]any)
	assert.Equal(t, float64(12), defStart["line"], "definition should point at the method")

	// --- Step 7: Definition of an imported component ---
	send(t, conn, jsonRPCRequest(6, "textDocument/definition", map[string]any{
		"textDocument": map[string]any{"uri": testURI},
		"position":     map[string]any{"line": 3, "character": 7},
	}))
	defResp, _ = readResponse(t, reader, 6)
	require.NotNil(t, defResp["result"], "component definition should return a result")
	assert.Equal(t, "file:///tmp/e2e-test/UserCard.vue", defResp["result"].(map[string]any)["uri"])

	// --- Step 8: Switch to single quotes ---
	send(t, conn, jsonRPCNotification("workspace/didChangeConfiguration", map[string]any{
		"settings": map[string]any{"vuehelper": map[string]any{"quotes": "single"}},
	}))
	time.Sleep(50 * time.Millisecond)

	// --- Step 9: Change document and complete attributes ---
	send(t, conn, jsonRPCNotification("textDocument/didChange", map[string]any{
		"textDocument":   map[string]any{"uri": testURI, "version": 2},
		"contentChanges": []any{map[string]any{"text": "<template>\n  <el-button @cl\n</template>\n"}},
	}))
	time.Sleep(50 * time.Millisecond)
	list = completionAt(t, conn, reader, 7, testURI, 1, 16)
	assert.Equal(t, []string{"click"}, itemLabels(list))
	assert.Equal(t, "click='$1'$0", list[0]["insertText"])
	assert.Equal(t, float64(2), list[0]["kind"], "method kind")

	// --- Step 10: Shutdown ---
	send(t, conn, jsonRPCRequest(99, "shutdown", nil))
	shutdownResp, _ := readResponse(t, reader, 99)
	assert.Nil(t, shutdownResp["error"], "shutdown should not error")
}

func TestE2E_ScriptRegionSuppressed(t *testing.T) {
	conn, cleanup := e2eServer(t)
	defer cleanup()

	reader := bufio.NewReader(conn)
	testURI := "file:///tmp/e2e-test/Script.vue"
	initialize(t, conn, reader, nil)
	openComponent(t, conn, testURI, "vue", "<script>\nconst a = '<el-'\n</script>\n")

	list := completionAt(t, conn, reader, 2, testURI, 1, 15)
	assert.Empty(t, list, "no completion inside script")

	send(t, conn, jsonRPCRequest(99, "shutdown", nil))
	readResponse(t, reader, 99)
}

func TestE2E_LanguageFromPath(t *testing.T) {
	conn, cleanup := e2eServer(t)
	defer cleanup()

	reader := bufio.NewReader(conn)
	testURI := "file:///tmp/e2e-test/index.html"
	initialize(t, conn, reader, nil)
	openComponent(t, conn, testURI, "plaintext", "<el-button size=\"")

	list := completionAt(t, conn, reader, 2, testURI, 0, 17)
	assert.Equal(t, []string{"medium", "small", "mini"}, itemLabels(list))

	openComponent(t, conn, "file:///tmp/e2e-test/notes.txt", "plaintext", "<el-button size=\"")
	list = completionAt(t, conn, reader, 3, "file:///tmp/e2e-test/notes.txt", 0, 17)
	assert.Empty(t, list, "unsupported language")

	send(t, conn, jsonRPCRequest(99, "shutdown", nil))
	readResponse(t, reader, 99)
}

func TestE2E_UnknownDocument(t *testing.T) {
	conn, cleanup := e2eServer(t)
	defer cleanup()

	reader := bufio.NewReader(conn)
	initialize(t, conn, reader, nil)

	list := completionAt(t, conn, reader, 2, "file:///tmp/e2e-test/missing.vue", 0, 0)
	assert.Empty(t, list)

	send(t, conn, jsonRPCRequest(3, "textDocument/hover", map[string]any{
		"textDocument": map[string]any{"uri": "file:///tmp/e2e-test/missing.vue"},
		"position":     map[string]any{"line": 0, "character": 0},
	}))
	hoverResp, _ := readResponse(t, reader, 3)
	assert.Nil(t, hoverResp["result"])
	assert.Nil(t, hoverResp["error"])

	send(t, conn, jsonRPCRequest(99, "shutdown", nil))
	readResponse(t, reader, 99)
}
