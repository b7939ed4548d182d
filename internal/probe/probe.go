package probe

import (
	"context"

	"github.com/busygit/busygit/internal/model"
)

// Outcome is the result of one completed probe. It never references any
// repository other than the one probed.
type Outcome struct {
	Branch   string
	Detached bool
	Local    model.LocalStatus
	Remote   model.RemoteStatus
	Note     string // non-fatal detail, e.g. why the remote is unreachable
}

type Prober interface {
	// Probe reads local and remote status from on-disk state only. The
	// remote comparison uses the already-known remote-tracking refs and
	// never touches the network.
	Probe(ctx context.Context, repoPath string) (*Outcome, error)

	// FetchProbe updates the remote-tracking refs first, then probes. A
	// fetch failure is reported as RemoteUnreachable in the outcome, not
	// as an error; the error return is reserved for a failed status read.
	FetchProbe(ctx context.Context, repoPath string) (*Outcome, error)
}
