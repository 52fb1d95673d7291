package service

import (
	"fmt"
	"strings"
)

type Tab string

const (
	TabDados        Tab = "dados"
	TabDocumentos   Tab = "documentos"
	TabFrete        Tab = "frete"
	TabObservacoes  Tab = "observacoes"
	TabCancelamento Tab = "cancelamento"
	TabRejeicao     Tab = "rejeicao"
)

var Tabs = []Tab{TabDados, TabDocumentos, TabFrete, TabObservacoes, TabCancelamento, TabRejeicao}

const (
	TabActionSave        = "salvar"
	TabActionCancel      = "cancelar"
	TabActionReject      = "rejeitar"
	TabActionBackToDados = "voltar_dados"
)

func ParseTab(raw string) (Tab, error) {
	value := Tab(strings.ToLower(strings.TrimSpace(raw)))
	for _, tab := range Tabs {
		if tab == value {
			return tab, nil
		}
	}
	return "", fmt.Errorf("%w: unknown tab %q", ErrInvalidInput, raw)
}

// RequiresPersisted reports whether the tab is only reachable for a saved contract.
func (t Tab) RequiresPersisted() bool {
	return t == TabCancelamento || t == TabRejeicao
}

type TabView struct {
	Tab         Tab      `json:"tab"`
	Accessible  bool     `json:"accessible"`
	Placeholder bool     `json:"placeholder"`
	Message     string   `json:"message,omitempty"`
	Actions     []string `json:"actions"`
}

// ResolveTab decides what the contract form shows for tab. Cancelling or rejecting an unsaved contract
// yields a placeholder whose only action is going back to dados.
func ResolveTab(tab Tab, contractID int64) TabView {
	if tab.RequiresPersisted() && contractID <= 0 {
		return TabView{
			Tab:         tab,
			Accessible:  false,
			Placeholder: true,
			Message:     "Salve os dados do contrato antes de continuar",
			Actions:     []string{TabActionBackToDados},
		}
	}

	view := TabView{Tab: tab, Accessible: true}
	switch tab {
	case TabCancelamento:
		view.Actions = []string{TabActionCancel}
	case TabRejeicao:
		view.Actions = []string{TabActionReject}
	default:
		view.Actions = []string{TabActionSave}
	}
	return view
}

// ResolveTabs returns the view of every tab in order.
func ResolveTabs(contractID int64) []TabView {
	views := make([]TabView, 0, len(Tabs))
	for _, tab := range Tabs {
		views = append(views, ResolveTab(tab, contractID))
	}
	return views
}
