package recorder

import (
	"bufio"
	"os"
	"path/filepath"
	"testing"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}
	return lines
}

// A 3-exchange session produces exactly 12 lines.
func TestRecorder_RecordingRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.txt")
	r := New(path, 0, nil)
	if err := r.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	r.RecordRecvNone()
	r.RecordSend("REGISTER{simulator_name:\"cartpole\"}")
	r.RecordRecv("ACKNOWLEDGE_REGISTER{sim_id:7}")
	r.RecordSend("READY{sim_id:7}")
	r.RecordRecv("START")
	r.RecordSend("STATE{sim_id:7, state_data:1 entries}")
	r.Close()
	r.Wait()

	lines := readLines(t, path)
	if len(lines) != 12 {
		t.Fatalf("line count = %d, want 12: %v", len(lines), lines)
	}
	if lines[0] != "RECV" || lines[1] != "None" {
		t.Fatalf("first pair = %v, %v", lines[0], lines[1])
	}
	if lines[2] != "SEND" {
		t.Fatalf("expected SEND at line 3, got %v", lines[2])
	}
}

// Property 7: for every SEND line, the immediately preceding line is
// either a RECV or the very first line of the file.
func TestRecorder_Property_SendAlwaysPrecededByRecvOrStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.txt")
	r := New(path, 0, nil)
	if err := r.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	r.RecordSendNone()
	r.RecordRecv("ACK")
	r.RecordSend("READY")
	r.Close()
	r.Wait()

	lines := readLines(t, path)
	for i := 0; i < len(lines); i += 2 {
		if lines[i] != "SEND" {
			continue
		}
		if i != 0 && lines[i-2] != "RECV" {
			t.Fatalf("SEND at line %d not preceded by RECV or file start: %v", i, lines)
		}
	}
}
