package sshutil

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	sshagent "github.com/xanzy/ssh-agent"
	"golang.org/x/crypto/ssh"
)

const dialTimeout = 15 * time.Second

// Dial opens an SSH connection to a resolved host. Auth prefers a running
// ssh-agent; the host's IdentityFile is added when readable.
func Dial(h Host) (*ssh.Client, error) {
	var auth []ssh.AuthMethod
	if sshagent.Available() {
		ag, _, err := sshagent.New()
		if err == nil {
			auth = append(auth, ssh.PublicKeysCallback(ag.Signers))
		}
	}
	if h.IdentityFile != "" {
		if signer, err := loadSigner(h.IdentityFile); err == nil {
			auth = append(auth, ssh.PublicKeys(signer))
		}
	}
	if len(auth) == 0 {
		return nil, errors.New("no ssh auth available: no agent and no readable identity file")
	}
	user := h.User
	if user == "" {
		user = "vagrant"
	}
	cfg := &ssh.ClientConfig{
		User: user,
		Auth: auth,
		// Playground machines are throwaway; host keys churn on every
		// delete/start cycle.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         dialTimeout,
	}
	client, err := ssh.Dial("tcp", net.JoinHostPort(h.HostName, h.Port), cfg)
	if err != nil {
		return nil, fmt.Errorf("ssh %s: %w", h.Name, err)
	}
	return client, nil
}

func loadSigner(path string) (ssh.Signer, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ssh.ParsePrivateKey(b)
}
