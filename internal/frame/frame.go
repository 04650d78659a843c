package frame

// Wire markers sent by the device around a dump.
const (
	RLEBegin  = "--- RLE DUMP BEGIN ---"
	RLEEnd    = "--- RLE DUMP END ---" // the listener never checks it
	GridBegin = "--- SCREEN DUMP BEGIN ---"
	GridEnd   = "--- SCREEN DUMP END ---"
)

// Frame is the captured payload of one dump, before decoding.
// It is either an RLEFrame or a GridFrame.
type Frame interface {
	isFrame()
}

// RLEFrame holds the single run-length encoded payload line.
type RLEFrame struct {
	Encoded string
}

// GridFrame holds the ASCII-art rows of an uncompressed dump in arrival order.
type GridFrame struct {
	Rows []string
}

func (RLEFrame) isFrame()  {}
func (GridFrame) isFrame() {}
