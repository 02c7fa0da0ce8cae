package main

import (
	"fmt"

	"github.com/dalnet/ircnick/internal/accounts"
	"github.com/dalnet/ircnick/internal/nickname"
	"github.com/samber/lo"
)

// prefEditor is the part of the preference store the command line edits.
type prefEditor interface {
	SetNickname(nick string) error
	SetAccount(username string) error
}

type prefEdits struct {
	nick         string
	account      string
	clearNick    bool
	clearAccount bool
}

func (e prefEdits) any() bool {
	return e.nick != "" || e.account != "" || e.clearNick || e.clearAccount
}

// apply stores the requested changes. A selected account must be one of the
// configured IRC accounts.
func (e prefEdits) apply(store prefEditor, registry *accounts.Registry) error {
	if e.account != "" && !lo.Contains(registry.Choices(nickname.ProtocolIRC), e.account) {
		return fmt.Errorf("unknown IRC account %q", e.account)
	}

	switch {
	case e.clearNick:
		if err := store.SetNickname(""); err != nil {
			return err
		}
	case e.nick != "":
		if err := store.SetNickname(e.nick); err != nil {
			return err
		}
	}

	switch {
	case e.clearAccount:
		return store.SetAccount("")
	case e.account != "":
		return store.SetAccount(e.account)
	}
	return nil
}
