package build

import (
	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/fetch"
	"git.home.luguber.info/inful/docsite/internal/git"
	"git.home.luguber.info/inful/docsite/internal/process"
)

// NewCloner returns the clone backend selected by cfg. verbose streams
// go-git clone progress to stderr.
func NewCloner(cfg config.GitConfig, runner process.Runner, verbose bool) fetch.Cloner {
	if cfg.Backend == config.GitBackendGoGit {
		return git.NewCloner().WithProgress(verbose)
	}
	return fetch.NewCLICloner(runner, cfg.Binary, cfg.AlreadyExistsCode)
}
