package mailer

import "html/template"

type templateRef struct {
	name string
	t    *template.Template
}

var customerTemplate = templateRef{
	name: "customer",
	t: template.Must(template.New("customer").Parse(`<html>
<body style="font-family: sans-serif; color: #333;">
  <h1>Congratulations on your new pet!</h1>
  <p><strong>{{.PetName}}</strong> the {{.Species}} is officially yours.</p>
  <table>
    <tr><td>Amount paid:</td><td>${{.Amount}}</td></tr>
    <tr><td>Purchase date:</td><td>{{.PurchaseDate}}</td></tr>
  </table>
  <p>Thanks for shopping at Pete's Pet Emporium.</p>
</body>
</html>`)),
}

var adminTemplate = templateRef{
	name: "admin",
	t: template.Must(template.New("admin").Parse(`<html>
<body style="font-family: sans-serif; color: #333;">
  <h1>New pet purchase</h1>
  <table>
    <tr><td>Pet:</td><td>{{.PetName}} ({{.Species}})</td></tr>
    <tr><td>Amount:</td><td>${{.Amount}}</td></tr>
    <tr><td>Customer:</td><td>{{.CustomerEmail}}</td></tr>
    <tr><td>Purchase date:</td><td>{{.PurchaseDate}}</td></tr>
  </table>
</body>
</html>`)),
}
