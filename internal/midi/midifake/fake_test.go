package midifake

import (
	"bytes"
	"errors"
	"testing"
)

func TestTransport_SendAndFail(t *testing.T) {
	tr := New("A")
	tr.FailSendAfter = 3

	out, err := tr.OpenOut("A")
	if err != nil {
		t.Fatalf("OpenOut: %v", err)
	}
	for i := 1; i <= 4; i++ {
		err := out.Send([]byte{byte(i)})
		if wantFail := i >= 3; (err != nil) != wantFail {
			t.Errorf("send %d: err = %v", i, err)
		}
		if err != nil && !errors.Is(err, ErrInjected) {
			t.Errorf("send %d: err = %v, want ErrInjected", i, err)
		}
	}
	if got := tr.Messages(); len(got) != 2 || !bytes.Equal(got[1], []byte{2}) {
		t.Errorf("messages = %v", got)
	}

	tr.Reset()
	tr.FailSendAfter = 0
	if err := out.Send([]byte{9}); err != nil || len(tr.Writes()) != 1 {
		t.Errorf("after Reset: err=%v writes=%d", err, len(tr.Writes()))
	}

	if err := out.Close(); err != nil || tr.OpenOutputs("A") != 0 {
		t.Errorf("close: err=%v open=%d", err, tr.OpenOutputs("A"))
	}
	if err := out.Send([]byte{1}); err == nil {
		t.Error("send on closed port succeeded")
	}
}

func TestTransport_Inputs(t *testing.T) {
	tr := New("A")

	if tr.Inject("A", []byte{1}) {
		t.Fatal("inject without listener reported delivery")
	}
	var got []byte
	in, err := tr.OpenIn("A", func(b []byte) { got = b })
	if err != nil {
		t.Fatalf("OpenIn: %v", err)
	}
	if !tr.Inject("A", []byte{0x90, 60, 1}) || !bytes.Equal(got, []byte{0x90, 60, 1}) {
		t.Errorf("got % X", got)
	}
	if err := in.Close(); err != nil || tr.OpenInputs("A") != 0 {
		t.Errorf("close: err=%v open=%d", err, tr.OpenInputs("A"))
	}

	tr.FailOpenIn = errors.New("busy")
	if _, err := tr.OpenIn("A", nil); err == nil {
		t.Error("FailOpenIn ignored")
	}
	if _, err := tr.OpenOut("B"); err == nil {
		t.Error("unknown output opened")
	}
}
