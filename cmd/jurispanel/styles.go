package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/JaimeStill/jurispanel/internal/audit"
	"github.com/JaimeStill/jurispanel/internal/cases"
	"github.com/JaimeStill/jurispanel/internal/sessions"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	voteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212"))

	cellStyle = lipgloss.NewStyle().Padding(0, 1)
)

const timeLayout = "2006-01-02 15:04"

func truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-1]) + "…"
}

func renderMetadata(w io.Writer, md cases.Metadata) {
	fmt.Fprintln(w, headerStyle.Render(md.Orgao))
	if md.Relator != "" {
		fmt.Fprintf(w, "  Relator: %s\n", md.Relator)
	}
	if md.Data != "" || md.Hora != "" {
		fmt.Fprintf(w, "  %s\n", dateStyle.Render(strings.TrimSpace(md.Data+" "+md.Hora)))
	}
}

// newTable styles the header row and applies colStyles per column to the
// body rows.
func newTable(headers []string, colStyles map[int]lipgloss.Style) *table.Table {
	return table.New().
		Border(lipgloss.HiddenBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if st, ok := colStyles[col]; ok {
				return st.Padding(0, 1)
			}
			return cellStyle
		})
}

func renderCases(w io.Writer, list []cases.Case) error {
	t := newTable(
		[]string{"#", "ID", "PROCESSO", "CLASSE", "OBS", "VOTO"},
		map[int]lipgloss.Style{1: idStyle, 5: voteStyle},
	)
	for _, c := range list {
		obs := ""
		if c.Observacao != nil {
			obs = *c.Observacao
		}
		vote := "-"
		if c.Vote != nil {
			vote = c.Vote.Type
		}
		t.Row(strconv.Itoa(c.Chamada), c.ID, c.NumeroProcesso, truncate(c.Classe, 30), truncate(obs, 20), vote)
	}
	_, err := fmt.Fprintf(w, "%s\n\n%s processos\n", t, countStyle.Render(strconv.Itoa(len(list))))
	return err
}

func renderSummaries(w io.Writer, list []sessions.Summary, total int) error {
	t := newTable(
		[]string{"ID", "ÓRGÃO", "RELATOR", "DATA", "PROCESSOS", "SALVA EM"},
		map[int]lipgloss.Style{0: idStyle, 4: countStyle, 5: dateStyle},
	)
	for _, s := range list {
		t.Row(
			s.ID,
			truncate(s.Metadata.Orgao, 40),
			truncate(s.Metadata.Relator, 30),
			s.Metadata.Data,
			strconv.Itoa(s.CaseCount),
			s.SavedAt.Local().Format(timeLayout),
		)
	}
	_, err := fmt.Fprintf(w, "%s\n\n%d de %d sessões\n", t, len(list), total)
	return err
}

func renderEntries(w io.Writer, entries []audit.Entry) error {
	t := newTable(
		[]string{"QUANDO", "AÇÃO", "DETALHES", "ALVO"},
		map[int]lipgloss.Style{0: dateStyle, 3: idStyle},
	)
	for _, e := range entries {
		t.Row(e.Timestamp.Local().Format(timeLayout), e.Action, truncate(e.Details, 60), e.TargetID)
	}
	_, err := fmt.Fprintln(w, t)
	return err
}
