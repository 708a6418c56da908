package atecc508a

// transportDebug wraps a transport and logs every transfer and completion.
type transportDebug struct {
	prefix string
	log    Logger
	t      Transport
	c      TransportClient
}

var _ Transport = (*transportDebug)(nil)
var _ TransportClient = (*transportDebug)(nil)

func (t *transportDebug) SetClient(c TransportClient) {
	t.c = c
	t.t.SetClient(t)
}

func (t *transportDebug) Write(p []byte) error {
	t.log.Printf("%s: write(%d; %v)", t.prefix, len(p), hexDump(p))
	err := t.t.Write(p)
	if err != nil {
		t.log.Printf("%s: write: %v", t.prefix, err)
	}
	return err
}

func (t *transportDebug) Read(p []byte) error {
	t.log.Printf("%s: read(%d)", t.prefix, len(p))
	err := t.t.Read(p)
	if err != nil {
		t.log.Printf("%s: read: %v", t.prefix, err)
	}
	return err
}

func (t *transportDebug) TransferComplete(p []byte, err error) {
	if err != nil {
		t.log.Printf("%s: complete(%d): %v", t.prefix, len(p), err)
	} else {
		t.log.Printf("%s: complete(%d; %v)", t.prefix, len(p), hexDump(p))
	}
	t.c.TransferComplete(p, err)
}
