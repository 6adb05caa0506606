// Package ssh wraps golang.org/x/crypto/ssh and pkg/sftp behind small
// interfaces so the preflight and provisioning services can be tested
// without a real destination host.
package ssh

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"os"

	"github.com/fgeck/dockmigrate/internal/models"
	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

// Session wraps ssh.Session for mocking.
type Session interface {
	CombinedOutput(cmd string) ([]byte, error)
	RunWithInput(cmd string, input io.Reader) ([]byte, error)
	Close() error
}

// FileTransfer wraps an sftp client for mocking.
type FileTransfer interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, perm os.FileMode) error
	Close() error
}

// Client wraps ssh.Client for mocking.
type Client interface {
	NewSession() (Session, error)
	NewFileTransfer() (FileTransfer, error)
	Close() error
}

// ClientFactory creates SSH clients.
type ClientFactory interface {
	NewClient(network, addr string, config *ssh.ClientConfig) (Client, error)
}

// DefaultClientFactory is the default SSH client factory.
type DefaultClientFactory struct{}

// NewClient dials the destination and returns a connected client.
func (f *DefaultClientFactory) NewClient(network, addr string, config *ssh.ClientConfig) (Client, error) {
	client, err := ssh.Dial(network, addr, config)
	if err != nil {
		return nil, err
	}
	return &defaultClient{client: client}, nil
}

type defaultClient struct {
	client *ssh.Client
}

func (c *defaultClient) NewSession() (Session, error) {
	session, err := c.client.NewSession()
	if err != nil {
		return nil, err
	}
	return &defaultSession{session: session}, nil
}

func (c *defaultClient) NewFileTransfer() (FileTransfer, error) {
	client, err := sftp.NewClient(c.client)
	if err != nil {
		return nil, err
	}
	return &defaultFileTransfer{client: client}, nil
}

func (c *defaultClient) Close() error {
	return c.client.Close()
}

type defaultSession struct {
	session *ssh.Session
}

func (s *defaultSession) CombinedOutput(cmd string) ([]byte, error) {
	return s.session.CombinedOutput(cmd)
}

// RunWithInput runs cmd with input attached as the session's stdin and
// returns the combined output.
func (s *defaultSession) RunWithInput(cmd string, input io.Reader) ([]byte, error) {
	var out bytes.Buffer
	s.session.Stdin = input
	s.session.Stdout = &out
	s.session.Stderr = &out
	err := s.session.Run(cmd)
	return out.Bytes(), err
}

func (s *defaultSession) Close() error {
	return s.session.Close()
}

type defaultFileTransfer struct {
	client *sftp.Client
}

func (t *defaultFileTransfer) ReadFile(path string) ([]byte, error) {
	f, err := t.client.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (t *defaultFileTransfer) WriteFile(path string, data []byte, perm os.FileMode) error {
	f, err := t.client.Create(path)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return t.client.Chmod(path, perm)
}

func (t *defaultFileTransfer) Close() error {
	return t.client.Close()
}

// BuildClientConfig builds the ssh.ClientConfig for the destination. Host key
// verification is relaxed: first-contact hosts are trusted automatically.
func BuildClientConfig(cfg models.SSHConfig) (*ssh.ClientConfig, error) {
	var key []byte
	var err error

	if len(cfg.PrivateKey) > 0 {
		key = cfg.PrivateKey
	} else if cfg.KeyPath != "" {
		key, err = os.ReadFile(cfg.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read private key from %s: %w", cfg.KeyPath, err)
		}
	} else {
		return nil, fmt.Errorf("no private key provided")
	}

	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	return &ssh.ClientConfig{
		User: cfg.Username,
		Auth: []ssh.AuthMethod{
			ssh.PublicKeys(signer),
		},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint:gosec // first-contact hosts are trusted by design
		Timeout:         cfg.ConnectTimeout,
	}, nil
}

// Connect dials the destination through the factory, honouring context
// cancellation while the dial is in flight.
func Connect(ctx context.Context, factory ClientFactory, cfg models.SSHConfig) (Client, error) {
	sshConfig, err := BuildClientConfig(cfg)
	if err != nil {
		return nil, err
	}

	addr := net.JoinHostPort(cfg.Host, fmt.Sprintf("%d", cfg.Port))

	clientChan := make(chan struct {
		client Client
		err    error
	}, 1)

	go func() {
		client, err := factory.NewClient("tcp", addr, sshConfig)
		clientChan <- struct {
			client Client
			err    error
		}{client, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-clientChan:
		if res.err != nil {
			return nil, fmt.Errorf("failed to connect: %w", res.err)
		}
		return res.client, nil
	}
}
