package simulator

// Sample is a bundled contract the user can analyze without uploading.
type Sample struct {
	ID          string
	Title       string
	Description string
	Complexity  string
	Clauses     int
	Content     string
}

var samples = []Sample{
	{
		ID:          "employment",
		Title:       "Employment Contract",
		Description: "Standard employment agreement with NDA and compensation terms",
		Complexity:  "Medium",
		Clauses:     12,
		Content: `EMPLOYMENT AGREEMENT

1. Position. The Company employs the Employee as Software Engineer, reporting to the Head of Engineering.
2. Start Date. Employment begins on the first business day of the month following signature.
3. Probation. The first ninety (90) days constitute a probationary period during which either party may terminate with seven (7) days notice.
4. Compensation. The Employee shall receive an annual base salary of $95,000, payable monthly in arrears.
5. Overtime. Hours worked beyond forty (40) per week shall be compensated at one and one half times the regular rate.
6. Benefits. The Employee is eligible for the Company health plan from the first day of employment.
7. Leave. The Employee is entitled to twenty (20) days of paid annual leave per calendar year.
8. Confidentiality. The Employee shall not disclose any Confidential Information during employment or at any time thereafter.
9. Intellectual Property. All inventions, works and developments created by the Employee, whether or not during working hours, are assigned to the Company.
10. Non-Solicitation. For twelve (12) months after termination the Employee shall not solicit any customer or employee of the Company.
11. Termination. After probation either party may terminate this Agreement with thirty (30) days written notice.
12. Governing Law. This Agreement is governed by the laws of the State of California.`,
	},
	{
		ID:          "rental",
		Title:       "Rental Agreement",
		Description: "Residential lease agreement with pet policy and utilities",
		Complexity:  "Low",
		Clauses:     8,
		Content: `RESIDENTIAL LEASE AGREEMENT

1. Premises. Landlord leases to Tenant the apartment at 14 Elm Street, Unit 3B.
2. Term. The lease term is twelve (12) months commencing on the Start Date.
3. Rent. Tenant shall pay rent of $1,000 monthly, due on the first day of each month.
4. Late Fee. Rent received after the fifth day of the month incurs a late fee of $50.
5. Security Deposit. Tenant shall pay a deposit of one month's rent, returned within thirty (30) days of move-out less lawful deductions.
6. Pets. One cat or dog under 25 lbs is permitted with a non-refundable pet fee of $200.
7. Utilities. Tenant is responsible for electricity and internet; Landlord pays water and trash.
8. Entry. Landlord may enter the Premises with twenty-four (24) hours notice except in emergencies.`,
	},
	{
		ID:          "service",
		Title:       "Service Agreement",
		Description: "Professional services contract with liability and payment terms",
		Complexity:  "High",
		Clauses:     18,
		Content: `PROFESSIONAL SERVICES AGREEMENT

1. Services. Provider shall perform the services described in each Statement of Work ("SOW").
2. Change Orders. Changes to an SOW require a written change order signed by both parties.
3. Fees. Client shall pay the fees set out in each SOW.
4. Invoicing. Provider invoices monthly; invoices are payable within forty-five (45) days.
5. Late Payment. Overdue amounts accrue interest at 1.5% per month.
6. Expenses. Pre-approved travel expenses are reimbursed at cost.
7. Acceptance. Deliverables are deemed accepted unless Client rejects them in writing within five (5) business days.
8. Warranty. Provider warrants the services will be performed in a professional manner for ninety (90) days.
9. Disclaimer. Except as stated, all warranties, express or implied, are disclaimed.
10. Limitation of Liability. Provider's total liability shall not exceed the fees paid in the three (3) months preceding the claim.
11. Indemnification. Client shall indemnify Provider against all claims arising from Client materials.
12. Intellectual Property. Provider retains ownership of pre-existing tools; Client owns final deliverables upon full payment.
13. Confidentiality. Each party shall protect the other's Confidential Information for five (5) years.
14. Non-Solicitation. Neither party shall hire the other's personnel for twelve (12) months after the term.
15. Term. This Agreement continues for one (1) year and renews automatically for successive one-year terms.
16. Termination for Convenience. Either party may terminate with sixty (60) days written notice.
17. Dispute Resolution. Disputes shall be resolved by binding arbitration; the parties waive jury trial.
18. Governing Law. This Agreement is governed by the laws of the State of Delaware.`,
	},
}

// Samples returns the bundled sample documents in display order.
func Samples() []Sample {
	out := make([]Sample, len(samples))
	copy(out, samples)
	return out
}

// SampleByID finds a sample by its identifier.
func SampleByID(id string) (Sample, bool) {
	for _, s := range samples {
		if s.ID == id {
			return s, true
		}
	}
	return Sample{}, false
}
