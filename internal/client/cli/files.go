package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/filereview/internal/client/client"
	"github.com/dmitrijs2005/filereview/internal/filex"
)

// List prints the user's filenames; all keeps repeated uploads.
func (a *App) List(ctx context.Context, all bool) error {
	files, err := a.client.ListFiles(ctx, all)
	if err != nil {
		a.reportError(err)
		return err
	}

	if len(files) == 0 {
		fmt.Fprintln(a.out, "No files uploaded yet.")
		return nil
	}
	for i, f := range files {
		fmt.Fprintf(a.out, "%3d. %s\n", i+1, f)
	}
	return nil
}

// Upload sends the local file at path under its base name.
func (a *App) Upload(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return err
	}

	res, err := a.client.Upload(ctx, filepath.Base(path), data)
	if err != nil {
		a.reportError(err)
		return err
	}

	fmt.Fprintf(a.out, "File %s uploaded successfully (%d bytes).\n", res.Filename, res.Size)
	return nil
}

func (a *App) Preview(ctx context.Context, name string) error {
	tbl, err := a.client.Preview(ctx, name)
	if err != nil {
		a.reportError(err)
		return err
	}

	renderTable(a.out, tbl)
	return nil
}

// Download writes the file to dest, or to the configured download
// directory under the server-provided name when dest is empty.
func (a *App) Download(ctx context.Context, name, dest string) error {
	f, err := a.client.Download(ctx, name)
	if err != nil {
		a.reportError(err)
		return err
	}

	if dest == "" {
		base := filepath.Base(f.Filename)
		if !filex.IsSafeName(base) {
			base = filepath.Base(name)
		}
		dest = filepath.Join(a.config.DownloadDir, base)
	}

	if err := filex.WriteFileAtomic(dest, f.Data, 0o644); err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return err
	}

	fmt.Fprintf(a.out, "Saved %s (%d bytes).\n", dest, len(f.Data))
	return nil
}

var cellReplacer = strings.NewReplacer("\t", " ", "\r", " ", "\n", " ")

func tableLine(cells []string) string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = cellReplacer.Replace(c)
	}
	return strings.Join(out, "\t")
}

func renderTable(w io.Writer, tbl *client.Table) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, tableLine(tbl.Columns))
	for _, row := range tbl.Rows {
		fmt.Fprintln(tw, tableLine(row))
	}
	_ = tw.Flush()

	if tbl.Truncated {
		fmt.Fprintf(w, "(showing first %d rows)\n", len(tbl.Rows))
	}
}
