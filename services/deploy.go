// services/deploy.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"bayorder-backend/models"
)

const menuExportFile = "data/menu.json"

// Deployer pushes the published menu to the site repository. The host
// deploys automatically on push, so "deploy" means: write the menu
// file, commit it, push, and stream git's output back to the admin.
//
// Publish and deploy are independent steps: a failed push does not
// roll back the commit or the already-published menu.
type Deployer struct {
	RepoDir string
	Remote  string
	Branch  string
}

func NewDeployer(repoDir, remote, branch string) *Deployer {
	if remote == "" {
		remote = "origin"
	}
	if branch == "" {
		branch = "main"
	}
	return &Deployer{RepoDir: repoDir, Remote: remote, Branch: branch}
}

// Run executes the deploy sequence, writing progress to w as it goes.
// Errors after streaming has begun are reported inline on w; only a
// setup failure is returned.
func (d *Deployer) Run(ctx context.Context, production *models.MenuDocument, publishedBy string, w io.Writer) error {
	fmt.Fprintf(w, "Starting deployment...\nDeployed by: %s\n\n", publishedBy)

	if err := d.writeMenuFile(production); err != nil {
		fmt.Fprintf(w, "Error writing menu file: %v\n", err)
		return err
	}

	status, err := d.git(ctx, "status", "--porcelain")
	if err != nil {
		fmt.Fprintf(w, "Error checking git status: %v\n", err)
		return err
	}

	if strings.TrimSpace(status) != "" {
		fmt.Fprint(w, "Committing menu changes to git...\n")

		if _, err := d.git(ctx, "add", menuExportFile); err != nil {
			fmt.Fprintf(w, "Error adding files: %v\n", err)
			return err
		}

		message := fmt.Sprintf("Update menu - Published by %s", publishedBy)
		out, err := d.git(ctx, "commit", "-m", message)
		if err != nil && !strings.Contains(out, "nothing to commit") {
			fmt.Fprintf(w, "Error committing: %v\n", err)
			return err
		}
		if strings.TrimSpace(out) == "" {
			out = "No changes to commit\n"
		}
		fmt.Fprint(w, out)
	} else {
		fmt.Fprint(w, "No changes to commit.\n")
	}

	fmt.Fprint(w, "\nPushing to remote repository...\n")

	// Stream the push incrementally; a long push should show progress.
	// Git writes its normal chatter to stderr.
	push := exec.CommandContext(ctx, "git", "push", d.Remote, d.Branch)
	push.Dir = d.RepoDir
	push.Stdout = w
	push.Stderr = w

	if err := push.Run(); err != nil {
		code := -1
		if exitErr, ok := err.(*exec.ExitError); ok {
			code = exitErr.ExitCode()
		}
		fmt.Fprintf(w, "\n\nPush failed with code %d\n", code)
		return nil
	}

	fmt.Fprint(w, "\n\nDeployment triggered! The site will redeploy from git.\n")
	return nil
}

func (d *Deployer) writeMenuFile(production *models.MenuDocument) error {
	payload := map[string]interface{}{
		"beachDrinks": production.BeachDrinks,
		"roomService": production.RoomService,
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}

	path := filepath.Join(d.RepoDir, menuExportFile)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (d *Deployer) git(ctx context.Context, args ...string) (string, error) {
	var buf bytes.Buffer
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = d.RepoDir
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	err := cmd.Run()
	return buf.String(), err
}
