package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"joke_notification_bot/internal/app"
	"joke_notification_bot/internal/domain/position"
	"joke_notification_bot/internal/infra/ciscaffold"
	"joke_notification_bot/internal/infra/config"
	"joke_notification_bot/internal/infra/gitops"
	"joke_notification_bot/internal/infra/logger"

	"github.com/spf13/cobra"
)

// newRunner is replaced in tests.
var newRunner = func() gitops.Runner { return gitops.NewExecRunner(logger.Get()) }

func newCICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ci",
		Short: "Continuous integration helpers",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init [dir]",
		Short: "Write .github/workflows/ci.yml into dir (default .)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			path, err := ciscaffold.Scaffold(dir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "CI workflow written to %s\n", path)
			fmt.Fprintln(out, "Next steps:")
			fmt.Fprintln(out, "  git add .github/workflows/ci.yml")
			fmt.Fprintln(out, `  git commit -m "Add CI workflow"`)
			fmt.Fprintln(out, "  git push")
			return nil
		},
	})
	return cmd
}

func newGitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "git",
		Short: "Repository helpers driven by the dotenv file (GIT_USER, GIT_REPO, GIT_BRANCH, REPO_PATH, GIT_URL)",
	}
	cmd.AddCommand(newSaveURLCmd(), newSSHSetupCmd(), newPushCmd())
	return cmd
}

func newSaveURLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save-url <url>",
		Short: "Store the remote URL as GIT_URL in the dotenv file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := gitops.SaveURL(envFile, args[0]); err != nil {
				return err
			}
			abs, _ := filepath.Abs(envFile)
			fmt.Fprintf(cmd.OutOrStdout(), "GIT_URL saved in %s\n", abs)
			return nil
		},
	}
}

func openRepo() (*config.GitConfig, *gitops.Repo, error) {
	gc, err := config.LoadGit(envFile)
	if err != nil {
		return nil, nil, err
	}
	dir, err := filepath.Abs(gc.RepoPath)
	if err != nil {
		return nil, nil, err
	}
	logger.Get().Infof("Git settings: user=%s repo=%s branch=%s path=%s", gc.User, gc.Repo, gc.Branch, dir)
	return gc, gitops.NewRepo(newRunner(), dir, logger.Get()), nil
}

func newSSHSetupCmd() *cobra.Command {
	var sshDir string
	cmd := &cobra.Command{
		Use:   "ssh-setup",
		Short: "Create an SSH key, trust github.com and point origin at the SSH URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			gc, repo, err := openRepo()
			if err != nil {
				return err
			}
			if err := gc.RequireRepo(); err != nil {
				return err
			}
			if err := repo.Check(cmd.Context()); err != nil {
				return err
			}

			if sshDir == "" {
				if sshDir, err = gitops.DefaultSSHDir(); err != nil {
					return err
				}
			}
			log := logger.Get()
			setup := gitops.NewSSHSetup(newRunner(), sshDir, log)
			host, _ := os.Hostname()
			pub, err := setup.EnsureKey(cmd.Context(), gc.User+"@"+host)
			if err != nil {
				return err
			}
			if err := setup.TrustHost(cmd.Context()); err != nil {
				log.WithError(err).Warnf("Could not add %s to known_hosts", gitops.KnownHost)
			}

			url := gitops.SSHRemoteURL(gc.User, gc.Repo)
			if err := repo.SetRemote(cmd.Context(), gitops.Origin, url); err != nil {
				return err
			}
			log.Infof("Remote %s = %s", gitops.Origin, url)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, pub)
			fmt.Fprintln(out, "Add this key on GitHub: Settings > SSH and GPG keys > New SSH key")
			return nil
		},
	}
	cmd.Flags().StringVar(&sshDir, "ssh-dir", "", "SSH directory (default ~/.ssh)")
	return cmd
}

func newPushCmd() *cobra.Command {
	var (
		message   string
		branch    string
		extraArgs string
	)
	cmd := &cobra.Command{
		Use:   "push",
		Short: "Stage everything, commit and push to origin",
		RunE: func(cmd *cobra.Command, args []string) error {
			gc, repo, err := openRepo()
			if err != nil {
				return err
			}
			if branch == "" {
				branch = gc.Branch
			}
			return repo.Push(cmd.Context(), gitops.PushOptions{
				RemoteURL: gc.URL,
				Branch:    branch,
				Message:   message,
				ExtraArgs: extraArgs,
			})
		},
	}
	cmd.Flags().StringVarP(&message, "message", "m", "update", "commit message")
	cmd.Flags().StringVarP(&branch, "branch", "b", "", "branch to push (default GIT_BRANCH or main)")
	cmd.Flags().StringVar(&extraArgs, "extra-args", "", `extra "git push" arguments, shell-quoted`)
	return cmd
}

func newPositionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "positions",
		Short: "Trading position helpers",
	}
	var (
		input   string
		logFile string
	)
	logCmd := &cobra.Command{
		Use:   "log",
		Short: "Append open positions (JSON array from --file or stdin) to a JSON-lines log",
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if input != "" && input != "-" {
				f, err := os.Open(input)
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}

			var positions []position.Position
			if err := json.NewDecoder(r).Decode(&positions); err != nil {
				return fmt.Errorf("invalid positions input: %w", err)
			}
			if err := app.LogPositions(positions, logFile, time.Now()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d position(s) logged to %s\n", len(positions), logFile)
			return nil
		},
	}
	logCmd.Flags().StringVarP(&input, "file", "f", "-", "JSON file with the positions, - for stdin")
	logCmd.Flags().StringVar(&logFile, "log", app.DefaultPositionsLog, "log file")
	cmd.AddCommand(logCmd)
	return cmd
}
