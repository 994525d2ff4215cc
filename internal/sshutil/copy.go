package sshutil

import (
	"fmt"
	"io"
	"os"
	"path"

	"golang.org/x/crypto/ssh"
)

// Push streams data to a file on the remote machine. Writes go through sudo
// so system paths like /usr/bin are reachable from the unprivileged ssh user.
func Push(client *ssh.Client, data io.Reader, remotePath string, mode os.FileMode) error {
	sess, err := client.NewSession()
	if err != nil {
		return err
	}
	defer sess.Close()
	sess.Stdin = data
	cmd := fmt.Sprintf("sudo mkdir -p %q && sudo tee %q >/dev/null && sudo chmod 0%o %q",
		path.Dir(remotePath), remotePath, mode.Perm(), remotePath)
	if err := sess.Run(cmd); err != nil {
		return fmt.Errorf("push %s: %w", remotePath, err)
	}
	return nil
}

// Run executes a remote command, streaming combined output to out.
func Run(client *ssh.Client, command string, out io.Writer) error {
	sess, err := client.NewSession()
	if err != nil {
		return err
	}
	defer sess.Close()
	sess.Stdout = out
	sess.Stderr = out
	if err := sess.Run(command); err != nil {
		return fmt.Errorf("remote %q: %w", command, err)
	}
	return nil
}
