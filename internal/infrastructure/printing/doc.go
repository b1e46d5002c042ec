// Package printing turns POS documents into printable output.
//
// Templates are Go html/template files embedded in the binary. The template engine
// binds a document model to a template, ChromedpRenderer prints the resulting
// HTML to PDF through headless Chrome, and EncodeQR draws the UPI payment QR placed
// on bills.
//
//	engine := NewTemplateEngine(WithLocation(loc))
//	html, err := engine.RenderDefault(ctx, printing.DocTypeKOTSlip, model)
//	if err != nil {
//	    return err
//	}
//	result, err := renderer.Render(ctx, &RenderRequest{HTML: html, Layout: layout})
package printing
