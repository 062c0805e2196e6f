package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/and161185/hashpass/internal/config"
	"github.com/and161185/hashpass/internal/errs"
	"github.com/and161185/hashpass/internal/model"
	"github.com/and161185/hashpass/internal/secretcache"
	"github.com/and161185/hashpass/internal/session"
)

const shellHelp = `commands:
  profile <id>              select profile
  tag <name>                set tag
  key                       enter master key
  hash                      compute password
  copy                      copy shown password to clipboard
  settings <length> <type>  override settings of the current tag
  remember <minutes>        keep master key this long after hide (0: never)
  hide                      hide the session
  show                      show the session again
  status                    print current state
  quit                      exit`

func newShellCmd(a *app) *cobra.Command {
	var profileID int64
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive session that can be hidden and resumed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cache := secretcache.New(secretcache.WallClock(), a.log)
			defer cache.Clear()
			sh := &shell{
				app:   a,
				cache: cache,
				sess:  session.New(a.gen, cache, a.cfg.MasterKeyTTL(), a.log),
			}
			if p, err := a.profile(cmd.Context(), profileID); err == nil {
				sh.sess.SelectProfile(p.ID)
			} else if !errors.Is(err, errNoProfiles) {
				return err
			}
			return sh.loop(cmd.Context())
		},
	}
	cmd.Flags().Int64VarP(&profileID, "profile", "p", model.NoID, "profile id (default: last used)")
	return cmd
}

type shell struct {
	*app
	cache *secretcache.Cache
	sess  *session.Session
}

func (s *shell) loop(ctx context.Context) error {
	fmt.Fprintln(s.term.errOut, `hashpass shell; "help" lists commands`)
	for {
		prompt := "> "
		if !s.sess.Foreground() {
			prompt = "(hidden) > "
		}
		fmt.Fprint(s.term.errOut, prompt)
		line, err := s.term.readLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		done, err := s.exec(ctx, strings.Fields(line))
		if err != nil {
			if errors.Is(err, errs.ErrStorage) {
				return err
			}
			fmt.Fprintf(s.term.errOut, "error: %v\n", err)
		}
		if done {
			return nil
		}
	}
}

// exec runs one shell command. It reports true when the shell should exit.
func (s *shell) exec(ctx context.Context, f []string) (bool, error) {
	if len(f) == 0 {
		return false, nil
	}
	name, args := f[0], f[1:]
	switch name {
	case "quit", "exit":
		return true, nil
	case "help":
		fmt.Fprintln(s.term.errOut, shellHelp)
		return false, nil
	case "show":
		if s.sess.Enter() {
			fmt.Fprintln(s.term.errOut, "restored")
		}
		return false, nil
	case "status":
		s.status()
		return false, nil
	}
	if !s.sess.Foreground() {
		return false, errors.New(`session is hidden; "show" first`)
	}

	switch name {
	case "profile":
		if len(args) != 1 {
			return false, errs.InvalidInput("id", "usage: profile <id>")
		}
		id, err := parseID(args[0])
		if err != nil {
			return false, err
		}
		p, err := s.profiles.Get(ctx, id)
		if err != nil {
			return false, err
		}
		s.sess.SelectProfile(p.ID)
		fmt.Fprintf(s.term.errOut, "profile %d %q\n", p.ID, p.Name)
	case "tag":
		s.sess.SetTag(strings.Join(args, " "))
	case "key":
		key, err := s.term.readSecret("Master key: ")
		if err != nil {
			return false, err
		}
		s.sess.SetMasterKey(key)
		if fp, err := s.gen.Fingerprint(ctx, s.sess.Fields().ProfileID, key); err == nil && fp != "" {
			fmt.Fprintf(s.term.errOut, "Fingerprint: %s\n", fp)
		}
	case "hash":
		res, err := s.sess.Compute(ctx)
		if err != nil {
			return false, err
		}
		s.remember(res.Tag.ProfileID)
		if s.cfg.CopyToClipboard {
			return false, s.copy(res.Password)
		}
		fmt.Fprintln(s.term.out, res.Password)
	case "copy":
		pw := s.sess.Fields().Password
		if pw == "" {
			return false, errors.New(`nothing to copy; run "hash" first`)
		}
		return false, s.copy(pw)
	case "settings":
		return false, s.settings(ctx, args)
	case "remember":
		if len(args) != 1 {
			return false, errs.InvalidInput("minutes", "usage: remember <minutes>")
		}
		m, err := strconv.Atoi(args[0])
		if err != nil || m < 0 {
			return false, errs.InvalidInput("minutes", "must be a non-negative integer")
		}
		s.cfg.RememberMasterKeyMinutes = m
		s.sess.SetTTL(s.cfg.MasterKeyTTL())
		if err := config.SavePreference(s.v, config.KeyRememberMinutes, m); err != nil {
			return false, err
		}
	case "hide":
		s.sess.Leave()
	default:
		return false, fmt.Errorf("unknown command %q", name)
	}
	return false, nil
}

func (s *shell) settings(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errs.InvalidInput("settings", "usage: settings <length> <type>")
	}
	length, err := strconv.Atoi(args[0])
	if err != nil {
		return errs.InvalidInput("length", "not a number")
	}
	typ, err := parseType(args[1])
	if err != nil {
		return err
	}
	f := s.sess.Fields()
	t, err := s.tags.SaveTagSettings(ctx, f.ProfileID, f.TagName, length, typ)
	if err != nil {
		return err
	}
	s.sess.SetTag(t.Name)
	fmt.Fprintf(s.term.errOut, "%s: %d %s\n", t.Name, t.PasswordLength, t.PasswordType)
	return nil
}

func (s *shell) copy(pw string) error {
	if err := s.term.clipboard(pw); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	fmt.Fprintln(s.term.errOut, "copied to clipboard")
	return nil
}

func (s *shell) status() {
	f := s.sess.Fields()
	state := "shown"
	if !s.sess.Foreground() {
		state = "hidden"
	}
	key := "not set"
	if f.MasterKey != "" {
		key = "set"
	}
	fmt.Fprintf(s.term.errOut, "session %s; profile %d; tag %q; master key %s; cached %t; remember %d min\n",
		state, f.ProfileID, f.TagName, key, s.cache.Holding(), s.cfg.RememberMasterKeyMinutes)
	if f.Password != "" {
		fmt.Fprintf(s.term.errOut, "last password: %d %s\n", f.Tag.PasswordLength, f.Tag.PasswordType)
	}
}
