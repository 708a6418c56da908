package atecc508a

// Transport is a non-blocking byte transport to the device.
//
// Write and Read initiate exactly one transfer each and return without
// waiting for the device. The buffer is on loan to the transport until the
// completion is delivered to the registered client, which receives the same
// buffer back. A transport may deliver the completion before Write or Read
// returns; either way every transfer produces exactly one completion, and all
// completions must be delivered on the same goroutine discipline as the
// initiating calls — the driver holds no locks.
type Transport interface {
	// SetClient registers the receiver of transfer completions.
	SetClient(c TransportClient)
	// Write transfers p to the device.
	Write(p []byte) error
	// Read fills p from the device.
	Read(p []byte) error
}

// TransportClient receives transfer completions.
//
// err is nil for a successful transfer, ErrAddressNak or ErrDataNak when the
// device did not acknowledge, or any other error for a transport fault.
type TransportClient interface {
	TransferComplete(p []byte, err error)
}
