package config

import (
	"os"
	"testing"
	"time"

	"github.com/fgeck/dockmigrate/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_LoadReader_MinimalConfig(t *testing.T) {
	yaml := `
ssh:
  host: "203.0.113.7"
  key_path: "/root/.ssh/id_ed25519"
backup:
  source_dir: /etc/dokploy
service:
  name: dokploy
install:
  script_url: "https://dokploy.com/install.sh"
`
	parser := NewParser()
	cfg, err := parser.LoadReader(yaml)

	require.NoError(t, err)
	assert.Equal(t, "203.0.113.7", cfg.SSH.Host)
	assert.Equal(t, "/root/.ssh/id_ed25519", cfg.SSH.KeyPath)
	// Check defaults
	assert.Equal(t, 22, cfg.SSH.Port)
	assert.Equal(t, "root", cfg.SSH.Username)
	assert.Equal(t, 10*time.Second, cfg.SSH.ConnectTimeout)
	assert.Equal(t, "migration-backup.tar.gz", cfg.Backup.ArchiveFile)
	assert.Equal(t, "/var/lib/docker/volumes", cfg.Backup.VolumeRoot)
	assert.Equal(t, "/root/.ssh/authorized_keys", cfg.Backup.AuthorizedKeys)
	assert.Nil(t, cfg.WOL)
	assert.Nil(t, cfg.Telegram)
}

func TestParser_LoadReader_FullConfig(t *testing.T) {
	yaml := `
ssh:
  host: "203.0.113.7"
  port: 2222
  username: "admin"
  key_path: "/home/admin/.ssh/id_rsa"
  connect_timeout: 30s

backup:
  source_dir: /etc/dokploy
  archive_file: /var/backups/dokploy-migration.tar.gz
  volume_root: /mnt/docker/volumes
  authorized_keys: /home/admin/.ssh/authorized_keys

service:
  name: dokploy

install:
  script_url: "https://dokploy.com/install.sh"

wol:
  mac_address: "AA:BB:CC:DD:EE:FF"
  broadcast_ip: "192.168.1.255"
  poll_url: "http://203.0.113.7:3000"
  timeout: 10m
  poll_interval: 5s
  stabilize_wait: 15s

telegram:
  bot_token: "123456:ABC"
  chat_id: "-100123456789"
`
	parser := NewParser()
	cfg, err := parser.LoadReader(yaml)

	require.NoError(t, err)

	assert.Equal(t, 2222, cfg.SSH.Port)
	assert.Equal(t, "admin", cfg.SSH.Username)
	assert.Equal(t, 30*time.Second, cfg.SSH.ConnectTimeout)

	assert.Equal(t, "/var/backups/dokploy-migration.tar.gz", cfg.Backup.ArchiveFile)
	assert.Equal(t, "/mnt/docker/volumes", cfg.Backup.VolumeRoot)
	assert.Equal(t, "/home/admin/.ssh/authorized_keys", cfg.Backup.AuthorizedKeys)

	assert.Equal(t, "dokploy", cfg.Service.Name)
	assert.Equal(t, "https://dokploy.com/install.sh", cfg.Install.ScriptURL)

	require.NotNil(t, cfg.WOL)
	assert.Equal(t, "AA:BB:CC:DD:EE:FF", cfg.WOL.MACAddress)
	assert.Equal(t, 10*time.Minute, cfg.WOL.Timeout)
	assert.Equal(t, 5*time.Second, cfg.WOL.PollInterval)

	require.NotNil(t, cfg.Telegram)
	assert.Equal(t, "123456:ABC", cfg.Telegram.BotToken)
	assert.Equal(t, "-100123456789", cfg.Telegram.ChatID)
}

func TestParser_LoadReader_RequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing ssh host",
			yaml:    "ssh:\n  key_path: /k\nbackup:\n  source_dir: /s\nservice:\n  name: n\ninstall:\n  script_url: https://x/i.sh\n",
			wantErr: "ssh.host is required",
		},
		{
			name:    "missing key path",
			yaml:    "ssh:\n  host: h\nbackup:\n  source_dir: /s\nservice:\n  name: n\ninstall:\n  script_url: https://x/i.sh\n",
			wantErr: "ssh.key_path is required",
		},
		{
			name:    "missing source dir",
			yaml:    "ssh:\n  host: h\n  key_path: /k\nservice:\n  name: n\ninstall:\n  script_url: https://x/i.sh\n",
			wantErr: "backup.source_dir is required",
		},
		{
			name:    "missing service name",
			yaml:    "ssh:\n  host: h\n  key_path: /k\nbackup:\n  source_dir: /s\ninstall:\n  script_url: https://x/i.sh\n",
			wantErr: "service.name is required",
		},
		{
			name:    "missing install url",
			yaml:    "ssh:\n  host: h\n  key_path: /k\nbackup:\n  source_dir: /s\nservice:\n  name: n\n",
			wantErr: "install.script_url is required",
		},
		{
			name:    "plain http install url",
			yaml:    "ssh:\n  host: h\n  key_path: /k\nbackup:\n  source_dir: /s\nservice:\n  name: n\ninstall:\n  script_url: http://x/i.sh\n",
			wantErr: "install.script_url must be an https URL",
		},
		{
			name:    "wol without mac",
			yaml:    "ssh:\n  host: h\n  key_path: /k\nbackup:\n  source_dir: /s\nservice:\n  name: n\ninstall:\n  script_url: https://x/i.sh\nwol:\n  broadcast_ip: 1.2.3.255\n",
			wantErr: "wol.mac_address is required",
		},
		{
			name:    "telegram without token",
			yaml:    "ssh:\n  host: h\n  key_path: /k\nbackup:\n  source_dir: /s\nservice:\n  name: n\ninstall:\n  script_url: https://x/i.sh\ntelegram:\n  chat_id: \"42\"\n",
			wantErr: "telegram.bot_token is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := NewParser()
			_, err := parser.LoadReader(tt.yaml)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParser_LoadReader_ExpandsEnv(t *testing.T) {
	require.NoError(t, os.Setenv("DOCKMIGRATE_TEST_KEY", "/home/op/.ssh/id_ed25519"))
	t.Cleanup(func() { _ = os.Unsetenv("DOCKMIGRATE_TEST_KEY") })

	yaml := `
ssh:
  host: "203.0.113.7"
  key_path: "${DOCKMIGRATE_TEST_KEY}"
backup:
  source_dir: /etc/dokploy
service:
  name: dokploy
install:
  script_url: "https://dokploy.com/install.sh"
`
	parser := NewParser()
	cfg, err := parser.LoadReader(yaml)

	require.NoError(t, err)
	assert.Equal(t, "/home/op/.ssh/id_ed25519", cfg.SSH.KeyPath)
}

func TestParser_LoadFile_Missing(t *testing.T) {
	parser := NewParser()
	_, err := parser.LoadFile("/does/not/exist.yaml")

	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	require.Error(t, Validate(nil))

	cfg := &models.MigrationConfig{
		SSH:     models.SSHConfig{Host: "h", KeyPath: "/k"},
		Backup:  models.BackupSettings{SourceDir: "/s"},
		Service: models.ServiceSettings{Name: "n"},
		Install: models.InstallSettings{ScriptURL: "https://x/i.sh"},
	}
	require.NoError(t, Validate(cfg))

	broken := *cfg
	broken.Service.Name = ""
	require.Error(t, Validate(&broken))
}
