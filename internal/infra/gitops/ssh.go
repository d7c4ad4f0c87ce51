package gitops

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// KnownHost is the host whose key is added to known_hosts.
const KnownHost = "github.com"

// SSHRemoteURL is the SSH clone URL of a GitHub repository.
func SSHRemoteURL(user, repo string) string {
	return fmt.Sprintf("git@github.com:%s/%s.git", user, repo)
}

// SSHSetup provisions an ed25519 key pair under dir (usually ~/.ssh).
type SSHSetup struct {
	runner Runner
	dir    string
	logger *logrus.Logger
}

func NewSSHSetup(runner Runner, dir string, logger *logrus.Logger) *SSHSetup {
	return &SSHSetup{runner: runner, dir: dir, logger: logger}
}

// DefaultSSHDir returns ~/.ssh.
func DefaultSSHDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".ssh"), nil
}

func (s *SSHSetup) privateKey() string { return filepath.Join(s.dir, "id_ed25519") }
func (s *SSHSetup) publicKey() string  { return s.privateKey() + ".pub" }

// EnsureKey creates the key pair when absent and returns the public key.
func (s *SSHSetup) EnsureKey(ctx context.Context, comment string) (string, error) {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", s.dir, err)
	}
	if err := os.Chmod(s.dir, 0o700); err != nil {
		return "", err
	}

	if !exists(s.privateKey()) || !exists(s.publicKey()) {
		s.logger.Info("Generating a new ed25519 SSH key...")
		_, err := s.runner.Run(ctx, s.dir, "ssh-keygen", "-t", "ed25519", "-C", comment, "-f", s.privateKey(), "-N", "")
		if err != nil {
			return "", fmt.Errorf("ssh-keygen failed: %w", err)
		}
	} else {
		s.logger.Infof("SSH key already present: %s", s.privateKey())
	}

	pub, err := os.ReadFile(s.publicKey())
	if err != nil {
		return "", fmt.Errorf("failed to read public key: %w", err)
	}
	return strings.TrimSpace(string(pub)), nil
}

// TrustHost appends the host key of KnownHost to known_hosts.
func (s *SSHSetup) TrustHost(ctx context.Context) error {
	out, err := s.runner.Run(ctx, s.dir, "ssh-keyscan", "-t", "ed25519", "-H", KnownHost)
	if err != nil {
		return err
	}
	if out == "" {
		return errors.New("ssh-keyscan returned no keys")
	}
	f, err := os.OpenFile(filepath.Join(s.dir, "known_hosts"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(out + "\n")
	return err
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
