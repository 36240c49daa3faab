package httpx

import "github.com/valyala/bytebufferpool"

// carryPool and stagingPool hand out pooled byte buffers for the
// decoder's carry buffer and the encoder's header-block staging
// buffer respectively. The pooling goal itself is grounded on
// MiraiMindz-watt/shockwave's pkg/shockwave/http11/pool.go, a
// zero-allocation HTTP/1.1 parser that pools its read/write buffers
// for exactly this reason: a streaming codec fed many small fragments
// would otherwise reallocate and regrow its carry buffer on every
// message. shockwave implements that pooling on top of sync.Pool
// (perCPUPool/pool.go), not bytebufferpool — bytebufferpool here is an
// out-of-pack ecosystem pick for the concrete pool type (the
// byte-slice-with-reset-on-Put building block valyala/fasthttp itself
// uses), not something grounded in any example repo's own source.
var (
	carryPool   bytebufferpool.Pool
	stagingPool bytebufferpool.Pool
)

// getCarryBuffer returns a zeroed, pooled buffer for a decoder's carry.
func getCarryBuffer() *bytebufferpool.ByteBuffer {
	return carryPool.Get()
}

// putCarryBuffer returns buf to the pool. Safe to call with nil.
func putCarryBuffer(buf *bytebufferpool.ByteBuffer) {
	if buf == nil {
		return
	}
	carryPool.Put(buf)
}

// getStagingBuffer returns a zeroed, pooled buffer for the encoder's
// header-block staging area.
func getStagingBuffer() *bytebufferpool.ByteBuffer {
	return stagingPool.Get()
}

// putStagingBuffer returns buf to the pool. Safe to call with nil.
func putStagingBuffer(buf *bytebufferpool.ByteBuffer) {
	if buf == nil {
		return
	}
	stagingPool.Put(buf)
}
