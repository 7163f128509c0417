package circuit

import (
	"errors"

	"github.com/OpenTraceLab/pcbdl/pkg/pin"
)

// Error categories. Every error returned by this package wraps exactly one of
// them; test with errors.Is.
var (
	// ErrConfiguration reports malformed pin, well or interface declarations.
	ErrConfiguration = pin.ErrConfiguration
	// ErrConnection reports a connect call that cannot be honoured, such as a
	// pin that already belongs to a net or an interface mismatch.
	ErrConnection = errors.New("connection error")
	// ErrLookup reports a pin, port or signal name that does not exist.
	ErrLookup = errors.New("lookup error")
	// ErrUnsupported reports a documented limitation, e.g. net-to-net joins.
	ErrUnsupported = errors.New("unsupported operation")
)
