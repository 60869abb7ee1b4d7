package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// GenerateSummaryPDF renders a one-page proposal summary: per-room totals,
// the project grand total and, for INR, the amount in words.
func GenerateSummaryPDF(data ProposalData) ([]byte, error) {
	data.Totals = data.Totals.Rounded()

	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).
		WithTopMargin(12).
		WithRightMargin(12).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addProposalHeader(m, data)
	addRoomTableHeader(m, data)
	for i, room := range data.Totals.Rooms {
		addRoomTableRow(m, i+1, room, data.Currency)
	}
	addProposalTotal(m, data)
	addProposalFooter(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

// SummaryPDFFilename mirrors ProposalFilename with a .pdf extension.
func SummaryPDFFilename(data ProposalData) string {
	return proposalBaseName(data.ClientDetails.ProjectName, data.GeneratedOn) + ".pdf"
}

func addProposalHeader(m core.Maroto, data ProposalData) {
	grey := &props.Color{Red: 80, Green: 80, Blue: 80}
	cd := data.ClientDetails

	m.AddRows(
		row.New(10).Add(
			col.New(12).Add(
				text.New(data.Branding.CompanyInfo.Name, props.Text{
					Size:  14,
					Style: fontstyle.Bold,
					Align: align.Left,
				}),
			),
		),
		row.New(5).Add(
			col.New(12).Add(
				text.New(data.Branding.CompanyInfo.Address, props.Text{Size: 8, Color: grey}),
			),
		),
		row.New(6),
		row.New(10).Add(
			col.New(12).Add(
				text.New("Proposal Summary", props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)

	date := cd.Date
	if date == "" {
		date = data.GeneratedOn.Format("2006-01-02")
	}
	m.AddRows(
		row.New(6).Add(
			col.New(6).Add(text.New("Project: "+cd.ProjectName, props.Text{Size: 9, Color: grey})),
			col.New(6).Add(text.New("Date: "+date, props.Text{Size: 9, Align: align.Right, Color: grey})),
		),
		row.New(6).Add(
			col.New(6).Add(text.New("Client: "+cd.ClientName, props.Text{Size: 9, Color: grey})),
			col.New(6).Add(text.New("Prepared By: "+cd.PreparedBy, props.Text{Size: 9, Align: align.Right, Color: grey})),
		),
		row.New(4),
	)
}

func addRoomTableHeader(m core.Maroto, data ProposalData) {
	headerBg := hexToColor(data.Branding.PrimaryColor)
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerTextLeft := headerText
	headerTextLeft.Align = align.Left
	headerCell := props.Cell{BackgroundColor: headerBg}

	cur := string(data.Currency)
	m.AddRows(
		row.New(8).Add(
			col.New(1).Add(text.New("Sr. No", headerText)).WithStyle(&headerCell),
			col.New(4).Add(text.New("Room", headerTextLeft)).WithStyle(&headerCell),
			col.New(1).Add(text.New("Items", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Subtotal ("+cur+")", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Tax ("+cur+")", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Total ("+cur+")", headerText)).WithStyle(&headerCell),
		),
	)
}

func addRoomTableRow(m core.Maroto, index int, room RoomTotals, currency Currency) {
	base := props.Text{Size: 8, Align: align.Center}
	left := base
	left.Align = align.Left
	right := base
	right.Align = align.Right

	var cell *props.Cell
	if index%2 == 0 {
		cell = &props.Cell{BackgroundColor: &props.Color{Red: 245, Green: 245, Blue: 245}}
	}

	cols := []core.Col{
		col.New(1).Add(text.New(strconv.Itoa(index), base)),
		col.New(4).Add(text.New(room.RoomName, left)),
		col.New(1).Add(text.New(strconv.Itoa(len(room.Lines)), base)),
		col.New(2).Add(text.New(FormatMoney(currency, room.TotalAfterMargin), right)),
		col.New(2).Add(text.New(FormatMoney(currency, room.TaxTotal), right)),
		col.New(2).Add(text.New(FormatMoney(currency, room.GrandTotal), right)),
	}
	if cell != nil {
		for i := range cols {
			cols[i] = cols[i].WithStyle(cell)
		}
	}
	m.AddRows(row.New(7).Add(cols...))
}

func addProposalTotal(m core.Maroto, data ProposalData) {
	m.AddRows(row.New(6))

	summaryCell := &props.Cell{BackgroundColor: &props.Color{Red: 240, Green: 240, Blue: 240}}
	bold := props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}

	m.AddRows(
		row.New(9).Add(
			col.New(8).Add(text.New("Grand Total (incl. 18% GST)", bold)).WithStyle(summaryCell),
			col.New(4).Add(text.New(FormatMoney(data.Currency, data.Totals.GrandTotal), bold)).WithStyle(summaryCell),
		),
	)

	if data.Currency == CurrencyINR {
		m.AddRows(
			row.New(8).Add(
				col.New(12).Add(text.New("Amount in words: "+RupeesInWords(data.Totals.GrandTotal), props.Text{
					Size:  8,
					Style: fontstyle.Italic,
					Align: align.Left,
				})),
			),
		)
	}
}

func addProposalFooter(m core.Maroto, data ProposalData) {
	note := fmt.Sprintf("Project margin %s. Prices converted at 1 USD = %s %s.",
		formatPercent(data.GlobalMargin), decimalString(data.Rate, 4), data.Currency)

	m.AddRows(row.New(6))
	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(text.New(note, props.Text{
				Size:  7,
				Align: align.Left,
				Color: &props.Color{Red: 140, Green: 140, Blue: 140},
			})),
		),
		row.New(6).Add(
			col.New(12).Add(text.New("Generated on "+data.GeneratedOn.Format("02 Jan 2006"), props.Text{
				Size:  7,
				Align: align.Left,
				Color: &props.Color{Red: 140, Green: 140, Blue: 140},
			})),
		),
	)
}

// hexToColor parses "#RRGGBB", falling back to DefaultPrimaryColor.
func hexToColor(hex string) *props.Color {
	if !hexColor.MatchString(hex) {
		hex = DefaultPrimaryColor
	}
	hex = strings.TrimPrefix(hex, "#")
	v, _ := strconv.ParseUint(hex, 16, 32)
	return &props.Color{
		Red:   int(v >> 16 & 0xFF),
		Green: int(v >> 8 & 0xFF),
		Blue:  int(v & 0xFF),
	}
}
