package transfer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/8cylinder/toolbox/pkg/config"
	"github.com/8cylinder/toolbox/pkg/errors"
)

func TestMapToRemote(t *testing.T) {
	prod := config.Server{Name: "prod", Root: "/var/www/app"}

	tests := []struct {
		name      string
		localPath string
		server    config.Server
		expRemote string
		expError  error
	}{
		{
			name:      "File",
			localPath: "/home/u/app/src/x.php",
			server:    prod,
			expRemote: "/var/www/app/src/x.php",
		},
		{
			name:      "ProjectRoot",
			localPath: "/home/u/app",
			server:    prod,
			expRemote: "/var/www/app",
		},
		{
			name:      "TrailingSlashKept",
			localPath: "/home/u/app/src/",
			server:    prod,
			expRemote: "/var/www/app/src/",
		},
		{
			name:      "UncleanLocalPath",
			localPath: "/home/u/app/src/../lib//y.php",
			server:    prod,
			expRemote: "/var/www/app/lib/y.php",
		},
		{
			name:      "OutsideRoot",
			localPath: "/home/u/other/x.php",
			server:    prod,
			expError:  errors.PathNotUnderProjectRoot{Path: "/home/u/other/x.php", Root: "/home/u/app"},
		},
		{
			name:      "SharedPrefixIsNotUnderRoot",
			localPath: "/home/u/application/x.php",
			server:    prod,
			expError:  errors.PathNotUnderProjectRoot{Path: "/home/u/application/x.php", Root: "/home/u/app"},
		},
		{
			name:      "RelativePath",
			localPath: "src/x.php",
			server:    prod,
			expError:  errors.PathNotUnderProjectRoot{Path: "src/x.php", Root: "/home/u/app"},
		},
		{
			name:      "MissingServerRoot",
			localPath: "/home/u/app/src/x.php",
			server:    config.Server{Name: "staging"},
			expError:  errors.ServerMissingRoot{Server: "staging"},
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			remote, err := MapToRemote(test.localPath, "/home/u/app", test.server)
			assert.Equal(t, test.expError, err)
			assert.Equal(t, test.expRemote, remote)
		})
	}
}

func TestResolveRemote(t *testing.T) {
	prod := config.Server{Name: "prod", Root: "/var/www/app"}

	remote, err := ResolveRemote("backups/app.sql.gz", prod)
	assert.NoError(t, err)
	assert.Equal(t, "/var/www/app/backups/app.sql.gz", remote)

	remote, err = ResolveRemote("/srv//dumps/../app.sql.gz", config.Server{Name: "bare"})
	assert.NoError(t, err)
	assert.Equal(t, "/srv/app.sql.gz", remote)

	_, err = ResolveRemote("app.sql.gz", config.Server{Name: "bare"})
	assert.Equal(t, errors.ServerMissingRoot{Server: "bare"}, err)
}
