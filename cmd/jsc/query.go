package main

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/scott-cotton/cli"

	"github.com/PermanChronicles/json-lsp-og/ir"
	"github.com/PermanChronicles/json-lsp-og/schemadoc"
)

func resources(cfg *ResourcesConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Resources.Parse(cc, args)
	if err != nil {
		cfg.Resources.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: resources requires one file", cli.ErrUsage)
	}
	doc, err := cfg.build(context.Background(), cc.In, args[0])
	if err != nil {
		return err
	}
	return listResources(cc.Out, doc)
}

func listResources(w io.Writer, doc *schemadoc.Document) error {
	for i, r := range doc.Resources {
		d := r.DialectURI
		if d == "" {
			d = "-"
		}
		line, col := doc.PosDoc.LineCol(r.Root.Offset)
		if _, err := fmt.Fprintf(w, "%d %s %s %d:%d\n", i, r.BaseURI, d, line+1, col+1); err != nil {
			return err
		}
		for _, name := range slices.Sorted(maps.Keys(r.Anchors)) {
			if _, err := fmt.Fprintf(w, "  #%s -> %s\n", name, r.Anchors[name]); err != nil {
				return err
			}
		}
	}
	return nil
}

func get(cfg *GetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Get.Parse(cc, args)
	if err != nil {
		cfg.Get.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: get requires a pointer and a file", cli.ErrUsage)
	}
	doc, err := cfg.build(context.Background(), cc.In, args[1])
	if err != nil {
		return err
	}
	return getNode(cc.Out, doc, cfg.Resource, args[0])
}

// getNode prints the source text of the node at ptr in the resource with
// the given index. A fragment that is not a pointer names an anchor.
func getNode(w io.Writer, doc *schemadoc.Document, index int, ptr string) error {
	if index < 0 || index >= len(doc.Resources) {
		return fmt.Errorf("no resource %d, document has %d", index, len(doc.Resources))
	}
	r := doc.Resources[index]
	var n *ir.Node
	if name, ok := strings.CutPrefix(ptr, "#"); ok && name != "" && name[0] != '/' {
		n = r.Anchor(name)
	} else {
		n = r.Get(ptr)
	}
	if n == nil {
		return fmt.Errorf("no node at %q", ptr)
	}
	_, err := fmt.Fprintf(w, "%s\n", doc.Text[n.Offset:n.End()])
	return err
}

func at(cfg *AtConfig, cc *cli.Context, args []string) error {
	args, err := cfg.At.Parse(cc, args)
	if err != nil {
		cfg.At.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: at requires an offset and a file", cli.ErrUsage)
	}
	off, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("%w: bad offset %q", cli.ErrUsage, args[0])
	}
	doc, err := cfg.build(context.Background(), cc.In, args[1])
	if err != nil {
		return err
	}
	return describeAt(cc.Out, doc, off)
}

func describeAt(w io.Writer, doc *schemadoc.Document, off int) error {
	n := doc.FindNodeAtOffset(off)
	if n == nil {
		return fmt.Errorf("no node at offset %d", off)
	}
	typ := n.Type.String()
	if n.Type == ir.PropertyType {
		if k, ok := n.Key(); ok {
			typ += " " + strconv.Quote(k)
		}
	}
	_, err := fmt.Fprintf(w, "%s#%s %s %s\n", n.ResourceURI, n.Pointer, typ, n.DialectURI)
	return err
}
