package printing

const invoiceTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>Invoice {{.Number}}</title>
<style>
  @page { size: A4; margin: 12mm; }
  body { font-family: "Helvetica Neue", Arial, sans-serif; font-size: 12px; color: #222; margin: 0; }
  h1 { font-size: 22px; margin: 0 0 4px; }
  h2 { font-size: 14px; margin: 0 0 6px; text-transform: uppercase; letter-spacing: .05em; color: #555; }
  .row { display: flex; justify-content: space-between; gap: 24px; margin-bottom: 18px; }
  .block { flex: 1; }
  .muted { color: #666; }
  .pre { white-space: pre-line; }
  table { width: 100%; border-collapse: collapse; margin-bottom: 16px; }
  th, td { border: 1px solid #ccc; padding: 5px 7px; }
  th { background: #f3f3f3; text-align: left; }
  td.num, th.num { text-align: right; }
  .total td { font-weight: bold; font-size: 14px; }
  .status { display: inline-block; padding: 2px 8px; border-radius: 3px; font-weight: bold; }
  .status.paid { background: #e3f5e1; color: #1d6b1a; }
  .status.pending { background: #fdf0d5; color: #8a5a00; }
</style>
</head>
<body>
<div class="row">
  <div class="block">
    <h1>{{if .Company.Name}}{{.Company.Name}}{{else}}Invoice{{end}}</h1>
    {{with .Company.Address}}<div class="pre">{{.}}</div>{{end}}
    {{with .Company.Phone}}<div>Phone: {{.}}</div>{{end}}
    {{with .Company.Email}}<div>Email: {{.}}</div>{{end}}
    {{with .Company.GSTIN}}<div>GSTIN: {{.}}</div>{{end}}
  </div>
  <div class="block" style="text-align:right">
    <h2>Tax Invoice</h2>
    <div><strong>Invoice No:</strong> {{.Number}}</div>
    <div><strong>Issue Date:</strong> {{formatDate .IssueDate "long"}}</div>
    <div><strong>Due Date:</strong> {{formatDate .DueDate "long"}}</div>
    <div><span class="status {{.Status}}">{{label .Status}}</span></div>
  </div>
</div>

<div class="row">
  <div class="block">
    <h2>Bill To</h2>
    <div><strong>{{.Client.Name}}</strong></div>
    {{with .Client.CompanyName}}<div>{{.}}</div>{{end}}
    {{with .Client.ContactPerson}}<div>Attn: {{.}}</div>{{end}}
    {{with .Client.Address}}<div class="pre">{{.}}</div>{{end}}
    {{with .Client.Phone}}<div>Phone: {{.}}</div>{{end}}
    {{with .Client.GSTIN}}<div>GSTIN: {{.}}</div>{{end}}
    {{with .Client.PAN}}<div>PAN: {{.}}</div>{{end}}
  </div>
</div>

<table>
  <thead>
    <tr>
      <th>#</th>
      <th>Kapan</th>
      <th>Category</th>
      <th class="num">Pcs</th>
      <th class="num">Weight</th>
      <th class="num">Rate</th>
      <th class="num">Amount</th>
    </tr>
  </thead>
  <tbody>
  {{range $i, $item := .Summary.LineItems}}
    <tr>
      <td>{{inc $i}}</td>
      <td>{{$item.KapanID}}</td>
      <td>{{$item.Category}}</td>
      <td class="num">{{$item.NumberOfDiamonds}}</td>
      <td class="num">{{formatWeight $item.WeightInKarats}}</td>
      <td class="num">{{formatCurrency $item.DisplayRate}}</td>
      <td class="num">{{formatCurrency $item.TotalValue}}</td>
    </tr>
  {{else}}
    <tr><td colspan="7" class="muted">No diamonds on this invoice.</td></tr>
  {{end}}
  </tbody>
</table>

<h2>Summary</h2>
<table>
  <thead>
    <tr>
      <th>Category</th>
      <th class="num">Pcs</th>
      <th class="num">Weight</th>
      <th class="num">Rate</th>
      <th class="num">Value</th>
    </tr>
  </thead>
  <tbody>
  {{with .Summary}}
    <tr>
      <td>4P Plus</td>
      <td class="num">{{.PlusCount}}</td>
      <td class="num">{{formatWeight .PlusWeight}}</td>
      <td class="num">{{formatCurrency .PlusRate}} / ct</td>
      <td class="num">{{formatCurrency .PlusValue}}</td>
    </tr>
    <tr>
      <td>4P Minus</td>
      <td class="num">{{.MinusCount}}</td>
      <td class="num">{{formatWeight .MinusWeight}}</td>
      <td class="num">{{formatCurrency .MinusRate}} / pc</td>
      <td class="num">{{formatCurrency .MinusValue}}</td>
    </tr>
    <tr class="total">
      <td colspan="4">Grand Total</td>
      <td class="num">{{formatCurrency .GrandTotal}}</td>
    </tr>
  {{end}}
  </tbody>
</table>

<div class="row">
  <div class="block">
    <h2>Payment</h2>
    <div>Status: {{label .Status}}</div>
    {{if .Paid}}
    <div>Paid On: {{formatTime .PaymentDate "long"}}</div>
    <div>Method: {{label .PaymentMethod}}</div>
    {{end}}
  </div>
  {{if .HasBank}}
  <div class="block">
    <h2>Bank Details</h2>
    {{with .Company.BankName}}<div>Bank: {{.}}</div>{{end}}
    {{with .Company.AccountHolderName}}<div>Account Name: {{.}}</div>{{end}}
    {{with .Company.AccountNumber}}<div>Account No: {{.}}</div>{{end}}
    {{with .Company.IFSCCode}}<div>IFSC: {{.}}</div>{{end}}
    {{with .Company.UPIID}}<div>UPI: {{.}}</div>{{end}}
  </div>
  {{end}}
</div>

{{with .Notes}}<h2>Notes</h2><div class="pre">{{.}}</div>{{end}}
{{with .Company.InvoiceTerms}}<h2>Terms</h2><div class="pre muted">{{.}}</div>{{end}}

<p class="muted">Generated {{formatDate .GeneratedAt "short"}}</p>
</body>
</html>
`
