package report

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/straye-as/pipeline-api/internal/domain"
)

// ExportFilename is the suggested download name of a client export
const ExportFilename = "clients-export.csv"

// MissingValue is written for an empty proposal status
const MissingValue = "—"

// ExportHeader lists the export columns in order
var ExportHeader = []string{
	"Client Name",
	"Contact Person",
	"Email",
	"Phone",
	"Stage",
	"Proposal Status",
	"Project Value",
	"Priority",
	"Days in Pipeline",
	"First Contact Date",
	"Last Follow-up",
	"Next Follow-up",
	"Notes",
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// ExportRow returns the unquoted cells of one client in ExportHeader order
func ExportRow(c *domain.Client) []string {
	status := string(c.ProposalStatus)
	if status == "" {
		status = MissingValue
	}
	return []string{
		c.Name,
		c.ContactPerson,
		c.Email,
		c.Phone,
		string(c.Stage),
		status,
		c.ProjectValue,
		string(c.Priority),
		strconv.Itoa(c.DaysInPipeline),
		c.FirstContactDate,
		c.LastFollowup,
		c.NextFollowup,
		lineBreaks.Replace(c.Notes),
	}
}

// WriteCSV writes the header and one fully quoted row per client, in the order given.
// encoding/csv only quotes cells that need it, so quoting is done here.
func WriteCSV(w io.Writer, clients []domain.Client) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strings.Join(ExportHeader, ",")); err != nil {
		return err
	}
	for i := range clients {
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
		for j, cell := range ExportRow(&clients[i]) {
			if j > 0 {
				if err := bw.WriteByte(','); err != nil {
					return err
				}
			}
			if _, err := bw.WriteString(quote(cell)); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// ExportCSV renders clients as a CSV document
func ExportCSV(clients []domain.Client) string {
	var b strings.Builder
	_ = WriteCSV(&b, clients)
	return b.String()
}

func quote(cell string) string {
	return `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
}
