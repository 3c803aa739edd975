package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/opfs/pkg/opfs"
)

// splitPath turns a slash-separated logical path into its segments.
// The empty path and "/" both mean the storage root.
func splitPath(path string) []string {
	var segs []string
	for _, s := range strings.Split(path, "/") {
		if s != "" && s != "." {
			segs = append(segs, s)
		}
	}
	return segs
}

// walkDir descends from the root handle through the given directory
// segments, optionally creating them.
func walkDir(ctx context.Context, root *opfs.DirectoryHandle, segs []string, create bool) (*opfs.DirectoryHandle, error) {
	dir := root
	for _, seg := range segs {
		var err error
		dir, err = dir.GetDirectoryHandle(ctx, seg, opfs.GetOptions{Create: create})
		if err != nil {
			return nil, err
		}
	}
	return dir, nil
}

// lookupFile resolves a logical file path to its handle, creating the
// file (and parent directories) if create is set.
func lookupFile(ctx context.Context, root *opfs.DirectoryHandle, path string, create bool) (*opfs.FileHandle, error) {
	segs := splitPath(path)
	if len(segs) == 0 {
		return nil, fmt.Errorf("not a file path: %q", path)
	}
	dir, err := walkDir(ctx, root, segs[:len(segs)-1], create)
	if err != nil {
		return nil, err
	}
	return dir.GetFileHandle(ctx, segs[len(segs)-1], opfs.GetOptions{Create: create})
}

func newLsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ls [path]",
		Short: "List the entries of a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := newStorage()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			root, err := st.GetDirectory(ctx)
			if err != nil {
				return err
			}
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			dir, err := walkDir(ctx, root, splitPath(path), false)
			if err != nil {
				return err
			}
			it := dir.Entries(ctx)
			for it.Next() {
				e := it.Value()
				fmt.Fprintf(cmd.OutOrStdout(), "%-9s %s\n", e.Handle.Kind(), e.Name)
			}
			return it.Err()
		},
	}
}

func newCatCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cat <file>",
		Short: "Print a file's content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := newStorage()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			root, err := st.GetDirectory(ctx)
			if err != nil {
				return err
			}
			fh, err := lookupFile(ctx, root, args[0], false)
			if err != nil {
				return err
			}
			file, err := fh.GetFile(ctx)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(file.Bytes())
			return err
		},
	}
}

func newWriteCommand() *cobra.Command {
	var (
		keep bool
		at   int64
	)
	cmd := &cobra.Command{
		Use:   "write <file> [content]",
		Short: "Write content to a file through a writable stream",
		Long: `Write content to a file, creating it and its parent directories as
needed. Without content, stdin is written. With --at, the bytes land at
that absolute offset instead of the start.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := newStorage()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			root, err := st.GetDirectory(ctx)
			if err != nil {
				return err
			}
			fh, err := lookupFile(ctx, root, args[0], true)
			if err != nil {
				return err
			}
			var data []byte
			if len(args) == 2 {
				data = []byte(args[1])
			} else {
				data, err = io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
			}
			stream, err := fh.CreateWritable(ctx, opfs.WritableOptions{KeepExistingData: keep})
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("at") {
				err = stream.Apply(ctx, opfs.WriteParams{Type: opfs.WriteTypeWrite, Position: &at, Data: data})
			} else {
				_, err = stream.Write(ctx, data)
			}
			if err != nil {
				_ = stream.Close(ctx)
				return err
			}
			if err := stream.Close(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d bytes to %s\n", len(data), args[0])
			return nil
		},
	}
	cmd.Flags().BoolVar(&keep, "keep", false, "keep existing data instead of truncating first")
	cmd.Flags().Int64Var(&at, "at", 0, "absolute offset to write at")
	return cmd
}

func newMkdirCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mkdir <dir>",
		Short: "Create a directory (and parents)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := newStorage()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			root, err := st.GetDirectory(ctx)
			if err != nil {
				return err
			}
			segs := splitPath(args[0])
			if len(segs) == 0 {
				return fmt.Errorf("not a directory path: %q", args[0])
			}
			if _, err := walkDir(ctx, root, segs, true); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", args[0])
			return nil
		},
	}
}

func newRmCommand() *cobra.Command {
	var recursive bool
	cmd := &cobra.Command{
		Use:   "rm <path>",
		Short: "Remove a file or directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := newStorage()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			root, err := st.GetDirectory(ctx)
			if err != nil {
				return err
			}
			segs := splitPath(args[0])
			if len(segs) == 0 {
				return fmt.Errorf("refusing to remove the storage root")
			}
			dir, err := walkDir(ctx, root, segs[:len(segs)-1], false)
			if err != nil {
				return err
			}
			if err := dir.RemoveEntry(ctx, segs[len(segs)-1], opfs.RemoveOptions{Recursive: recursive}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "remove directories and their contents")
	return cmd
}

func newResolveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <dir> <candidate>",
		Short: "Show the path segments from one entry to another",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := newStorage()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			root, err := st.GetDirectory(ctx)
			if err != nil {
				return err
			}
			dir, err := walkDir(ctx, root, splitPath(args[0]), false)
			if err != nil {
				return err
			}
			var candidate opfs.Handle
			candidate, err = walkDir(ctx, root, splitPath(args[1]), false)
			if err != nil {
				// Fall back to a file lookup for the last segment.
				candidate, err = lookupFile(ctx, root, args[1], false)
				if err != nil {
					return err
				}
			}
			segs, ok := dir.Resolve(candidate)
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "(no relation)")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "[%s]\n", strings.Join(segs, " "))
			return nil
		},
	}
}
