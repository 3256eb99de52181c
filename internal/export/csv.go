// Package export renders reports into downloadable formats.
package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Ashwani-vortex/springfield-management-dashboard/internal/domain"
)

// dealHeader is the column order of the deals export, matching the
// monitoring table left to right
var dealHeader = []string{
	"Sno", "Deal ID", "Agent Name", "Team", "Transaction Date",
	"Transaction Type", "Deal Type", "Project Name", "Unit Number",
	"Developer Name", "Property Type", "No. of Bedrooms", "Client Name",
	"Property Price", "Gross Commission (incl. VAT)", "Gross Commission",
	"VAT", "Agent Net Commission", "Manager Commission",
	"Sales Support Commission", "Company Net Commission", "Commission Slab",
	"Referral", "Referral Fee", "Lead Source", "Invoice Status",
	"Payment Received", "1st Payment Received", "2nd Payment Received",
	"3rd Payment Received", "Total Payment Received", "Amount Receivable",
	"Booking Form", "PP Copy", "KYC", "Screening", "Client ID",
	"Contact Phone", "Contact Email", "Client Type", "Passport No.",
	"Emirates ID", "Birthday", "Country", "Nationality",
}

// DealsCSV writes the monitoring rows as CSV. Every cell is quoted
// unconditionally with internal quotes doubled, so spreadsheet imports
// never mis-split on embedded commas or line breaks; encoding/csv only
// quotes when forced, which is why this writer is hand-rolled.
func DealsCSV(w io.Writer, rows []*domain.DealRow) error {
	if err := writeRecord(w, dealHeader); err != nil {
		return err
	}
	for i, row := range rows {
		record := []string{
			strconv.Itoa(i + 1),
			row.DealID, row.AgentName, row.Team, row.TransactionDate,
			row.TransactionType, row.DealType, row.ProjectName, row.UnitNumber,
			row.DeveloperName, row.PropertyType, row.NoOfBedrooms, row.ClientName,
			money(row.PropertyPrice), money(row.GrossCommissionVAT), money(row.GrossCommission),
			money(row.VAT), money(row.AgentNetCommission), money(row.ManagerCommission),
			money(row.SalesSupportCommission), money(row.CompanyNetCommission), row.CommissionSlab,
			row.Referral, money(row.ReferralFee), row.LeadSource, row.InvoiceStatus,
			row.PaymentReceived, money(row.FirstPayment), money(row.SecondPayment),
			money(row.ThirdPayment), money(row.TotalPayment), money(row.AmountReceivable),
			row.BookingForm, row.PPCopy, row.KYC, row.Screening, row.ClientID,
			row.ContactPhone, row.ContactEmail, row.ClientType, row.PassportNo,
			row.EmiratesID, row.Birthday, row.Country, row.Nationality,
		}
		if err := writeRecord(w, record); err != nil {
			return err
		}
	}
	return nil
}

func writeRecord(w io.Writer, record []string) error {
	var b strings.Builder
	for i, cell := range record {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(cell, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteString("\r\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// money renders a monetary cell with two decimals
func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
