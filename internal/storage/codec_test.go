package storage

import (
	"bytes"
	"strings"
	"testing"
)

func TestTraceRoundTrip(t *testing.T) {
	tr := sampleTrace()
	var buf bytes.Buffer
	if err := WriteTrace(&buf, tr); err != nil {
		t.Fatalf("write: %v", err)
	}

	header := strings.SplitN(buf.String(), "\n", 2)[0]
	if !strings.HasPrefix(header, "step,time,right.hip_yaw.angle,right.hip_yaw.target,right.hip_yaw.cmd") {
		t.Errorf("unexpected header %s", header)
	}

	got, err := ReadTrace(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Len() != tr.Len() || len(got.Keys) != len(tr.Keys) {
		t.Fatalf("shape changed: %d frames %d keys", got.Len(), len(got.Keys))
	}
	for i := range tr.Angles {
		for j := range tr.Keys {
			if got.Angles[i][j] != tr.Angles[i][j] || got.Commands[i][j] != tr.Commands[i][j] {
				t.Fatalf("frame %d joint %s differs", i, tr.Keys[j])
			}
		}
	}
}

func TestReadTraceRejectsBadHeader(t *testing.T) {
	tests := []string{
		"step,time,ground\n",
		"step,time,right.elbow.angle,right.elbow.target,right.elbow.cmd,ground,self\n",
		"a,b,right.hip_yaw.angle,right.hip_yaw.target,right.hip_yaw.cmd,ground,self\n",
	}
	for _, in := range tests {
		if _, err := ReadTrace(strings.NewReader(in)); err == nil {
			t.Errorf("expected error for %q", in)
		}
	}
}

func TestNewStore(t *testing.T) {
	st, err := NewStore("", "")
	if err != nil {
		t.Fatalf("new dir store: %v", err)
	}
	if _, ok := st.(*DirStore); !ok {
		t.Errorf("expected DirStore, got %T", st)
	}
	if err := CloseIfSupported(st); err != nil {
		t.Errorf("close: %v", err)
	}

	st, err = NewStore("sqlite", "runs.db")
	if err != nil {
		t.Fatalf("new sqlite store: %v", err)
	}
	if _, ok := st.(*SQLiteStore); !ok {
		t.Errorf("expected SQLiteStore, got %T", st)
	}

	if _, err := NewStore("postgres", ""); err == nil {
		t.Error("expected unsupported store error")
	}
}
