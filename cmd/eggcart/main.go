// Package main запускает терминальный клиент корзины.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmeshcher/eggmarket/internal/cartui"
	"github.com/mmeshcher/eggmarket/internal/catalog"
	"github.com/mmeshcher/eggmarket/internal/config"
	"github.com/mmeshcher/eggmarket/internal/model"
	"github.com/mmeshcher/eggmarket/internal/orders"
)

func main() {
	cfg, err := config.ParseClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	user := model.User{ID: model.UserID(cfg.UserID), Username: cfg.Username}
	if user.ID == "" {
		user.ID = model.AnonymousUserID
	}

	m := cartui.New(catalog.Default(), orders.NewClient(cfg.ServerURL), user)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "cart error: %v\n", err)
		os.Exit(1)
	}
}
