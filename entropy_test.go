package atecc508a

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collectClient drains up to max words per delivery and records the outcome.
type collectClient struct {
	max   int
	more  bool
	words []uint32
	errs  []error
}

func (c *collectClient) EntropyAvailable(words *EntropyWords, err error) Continue {
	if err != nil {
		c.errs = append(c.errs, err)
		return ContinueDone
	}

	for i := 0; i < c.max; i++ {
		w, ok := words.Next()
		if !ok {
			break
		}
		c.words = append(c.words, w)
	}
	if c.more {
		c.more = false
		return ContinueMore
	}
	return ContinueDone
}

// completeEntropy walks one full Random exchange on the wire.
func completeEntropy(t *testing.T, tr *testTransport, pool []byte) {
	t.Helper()
	require.Equal(t, uint8(atcaRandom), tr.writes[len(tr.writes)-1][fieldOpcode])

	tr.complete(nil, nil)
	resp := make([]byte, respCountSize+respRandomSize+crcSize)
	resp[0] = 0x23
	copy(resp[respCountSize:], pool)
	tr.complete(resp, nil)
}

func testPool(start byte) []byte {
	pool := make([]byte, entropyPoolSize)
	for i := range pool {
		pool[i] = start + byte(i)
	}
	return pool
}

func TestEntropyWords(t *testing.T) {
	d, tr := newTestDev()

	client := &collectClient{max: 8}
	src := d.Entropy()
	src.SetClient(client)

	require.NoError(t, src.Get())
	completeEntropy(t, tr, testPool(0))

	require.Len(t, client.words, 8)
	assert.Equal(t, uint32(0x00010203), client.words[0], "words are big endian")
	assert.Equal(t, uint32(0x1c1d1e1f), client.words[7])
	assert.True(t, d.Ready())
}

func TestEntropyOffsetPersists(t *testing.T) {
	d, tr := newTestDev()

	// Take three words, then come back for a fresh pool. The read offset
	// carries over, so the next delivery starts mid-pool.
	client := &collectClient{max: 3}
	src := d.Entropy()
	src.SetClient(client)

	require.NoError(t, src.Get())
	completeEntropy(t, tr, testPool(0))
	require.Equal(t, []uint32{0x00010203, 0x04050607, 0x08090a0b}, client.words)

	client.max = 8
	require.NoError(t, src.Get())
	completeEntropy(t, tr, testPool(0x40))

	require.Len(t, client.words, 11)
	assert.Equal(t, uint32(0x4c4d4e4f), client.words[3], "resumes at offset 12")
	assert.Equal(t, uint32(0x5c5d5e5f), client.words[7], "last word before the wrap")
	assert.Equal(t, uint32(0x40414243), client.words[8], "wraps back to offset 0")
}

func TestEntropyContinueMore(t *testing.T) {
	d, tr := newTestDev()

	client := &collectClient{max: 8, more: true}
	src := d.Entropy()
	src.SetClient(client)

	require.NoError(t, src.Get())
	completeEntropy(t, tr, testPool(0))

	// ContinueMore starts the next exchange without another Get.
	require.Len(t, tr.writes, 2)
	completeEntropy(t, tr, testPool(0x80))

	require.Len(t, client.words, 16)
	assert.Empty(t, client.errs)
	assert.True(t, d.Ready())
}

func TestEntropyGivesUp(t *testing.T) {
	d, tr := newTestDev()

	client := &collectClient{max: 8}
	src := d.Entropy()
	src.SetClient(client)

	require.NoError(t, src.Get())
	for i := 0; i <= retriesEntropyCmd; i++ {
		tr.complete(nil, ErrDataNak)
	}

	require.Len(t, client.errs, 1)
	assert.ErrorIs(t, client.errs[0], ErrNoAck)
	assert.Empty(t, client.words)
	assert.True(t, d.Ready())
}

func TestEntropyResultRetries(t *testing.T) {
	d, tr := newTestDev()

	client := &collectClient{max: 8}
	src := d.Entropy()
	src.SetClient(client)

	require.NoError(t, src.Get())
	tr.complete(nil, nil)

	for i := 0; i < 20; i++ {
		tr.complete(nil, ErrDataNak)
	}
	require.Len(t, tr.reads, 21)

	resp := make([]byte, respCountSize+respRandomSize+crcSize)
	copy(resp[respCountSize:], testPool(0))
	tr.complete(resp, nil)

	require.Len(t, client.words, 8)
}

func TestEntropyResultGivesUp(t *testing.T) {
	d, tr := newTestDev()

	client := &collectClient{max: 8}
	src := d.Entropy()
	src.SetClient(client)

	require.NoError(t, src.Get())
	tr.complete(nil, nil)

	for i := 0; i < retriesEntropyResult; i++ {
		tr.complete(nil, ErrDataNak)
	}
	require.Len(t, tr.reads, retriesEntropyResult+1, "still polling at the ceiling")
	require.Empty(t, client.errs)

	tr.complete(nil, ErrDataNak)
	assert.Len(t, tr.reads, retriesEntropyResult+1)
	assert.True(t, d.Ready())
	assert.NotNil(t, d.buf)

	require.Len(t, client.errs, 1, "exactly one failure delivery")
	assert.ErrorIs(t, client.errs[0], ErrNoAck)
	assert.Empty(t, client.words)
}

func TestEntropyNilWords(t *testing.T) {
	var w *EntropyWords
	_, ok := w.Next()
	assert.False(t, ok)
}

func TestEntropyCancel(t *testing.T) {
	d, _ := newTestDev()
	assert.NoError(t, d.Entropy().Cancel())
}
