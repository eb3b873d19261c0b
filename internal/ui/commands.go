package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"tablestate/internal/modal"
	"tablestate/internal/users"
)

func loadUsersCmd(ctx context.Context, store users.Store, seq int, q users.Query) tea.Cmd {
	return func() tea.Msg {
		page, err := store.List(ctx, q)
		return usersLoadedMsg{seq: seq, page: page, err: err}
	}
}

func deleteUsersCmd(ctx context.Context, store users.Store, requestID string, ids []string) tea.Cmd {
	return func() tea.Msg {
		n, err := store.Delete(ctx, ids...)
		return usersDeletedMsg{requestID: requestID, ids: ids, deleted: n, err: err}
	}
}

func saveUserCmd(ctx context.Context, store users.Store, action modal.Action, u users.User) tea.Cmd {
	return func() tea.Msg {
		var (
			saved users.User
			err   error
		)
		if action == modal.ActionUpdate {
			saved, err = store.Update(ctx, u)
		} else {
			saved, err = store.Create(ctx, u)
		}
		return userSavedMsg{user: saved, err: err}
	}
}
