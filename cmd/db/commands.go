package db

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/rediDB/cmd/util"
	"github.com/ValentinKolb/rediDB/lib/record"
	"github.com/spf13/cobra"
)

var (
	createCmd = &cobra.Command{
		Use:   "create [database]",
		Short: "Creates a new empty database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rpcStore.CreateCollection(args[0]); err != nil {
				return err
			}
			fmt.Println("created successfully")
			return nil
		},
	}
	addCmd = &cobra.Command{
		Use:   "add [database] [record]",
		Short: "Appends a record (JSON object) to a database",
		Example: `  redidb db add people '{"name":"ada","age":36}'
  redidb db add people        # appends an empty record`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			data := record.Record{}
			if len(args) == 2 {
				if data, err = util.ParseRecord(args[1]); err != nil {
					return err
				}
			}
			if err := rpcStore.Append(args[0], data); err != nil {
				return err
			}
			fmt.Println("added successfully")
			return nil
		},
	}
	getCmd = &cobra.Command{
		Use:   "get [database]",
		Short: "Prints all records of a database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := rpcStore.Get(args[0])
			if err != nil {
				return err
			}
			return util.PrintRecords(os.Stdout, records)
		},
	}
	queryCmd = &cobra.Command{
		Use:     "query [database] [query]",
		Short:   "Prints all records matching a query (JSON object)",
		Example: `  redidb db query people '{"age":36}'`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := util.ParseQuery(args[1])
			if err != nil {
				return err
			}
			records, err := rpcStore.FindAll(args[0], q)
			if err != nil {
				return err
			}
			return util.PrintRecords(os.Stdout, records)
		},
	}
	editCmd = &cobra.Command{
		Use:     "edit [database] [query] [data]",
		Short:   "Overwrites the fields of data on every record matching the query",
		Example: `  redidb db edit people '{"name":"ada"}' '{"age":37}'`,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := util.ParseQuery(args[1])
			if err != nil {
				return err
			}
			data, err := util.ParseRecord(args[2])
			if err != nil {
				return err
			}
			if err := rpcStore.MutateMatching(args[0], q, data); err != nil {
				return err
			}
			fmt.Println("edited successfully")
			return nil
		},
	}
	deleteCmd = &cobra.Command{
		Use:     "delete [database] [query]",
		Short:   "Deletes every record matching the query",
		Example: `  redidb db delete people '{"name":"ada"}'`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := util.ParseQuery(args[1])
			if err != nil {
				return err
			}
			if err := rpcStore.DeleteMatching(args[0], q); err != nil {
				return err
			}
			fmt.Println("deleted successfully")
			return nil
		},
	}
)
