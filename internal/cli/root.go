package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
)

func (a *App) getStatus() string {
	if a.user == nil {
		return "(guest)"
	}
	s := a.user.Name
	if a.folderID != "" {
		if snap := a.engine.Snapshot(); snap != nil {
			for _, f := range snap.Folders {
				if f.ID == a.folderID {
					s += "/" + f.Name
					break
				}
			}
		}
	}
	return fmt.Sprintf("(%s %s)", s, a.engine.Conn())
}

// Run starts the interactive loop and blocks until the user exits.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to PODs (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
