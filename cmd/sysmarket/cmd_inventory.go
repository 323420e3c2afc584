// This file contains the inventory commands: product and supplier access
// against the remote API, and the local SQLite store.
package main

import (
	"fmt"
	"strconv"

	"sysmarket/internal/inventory"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	useLocal      bool
	stockLimit    int
	productName   string
	productCat    string
	productPrice  float64
	productStock  int
	supplierName  string
	supplierEmail string
	supplierPhone string
)

var inventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Manage products and suppliers",
	Long: `Product and supplier management. By default commands talk to the
remote inventory API; pass --local to use the SQLite store instead.`,
}

var inventoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products (and suppliers when remote)",
	RunE:  runInventoryList,
}

var inventoryAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a product",
	RunE:  runInventoryAdd,
}

var inventoryRemoveCmd = &cobra.Command{
	Use:   "remove [id]",
	Short: "Remove a product by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runInventoryRemove,
}

var inventoryLowStockCmd = &cobra.Command{
	Use:   "low-stock",
	Short: "List products at or below a stock threshold (local store)",
	RunE:  runInventoryLowStock,
}

var inventorySetStockCmd = &cobra.Command{
	Use:   "set-stock [id] [stock]",
	Short: "Set the stock level of a product (local store)",
	Args:  cobra.ExactArgs(2),
	RunE:  runInventorySetStock,
}

var inventorySalesCmd = &cobra.Command{
	Use:   "sales",
	Short: "List recorded sales (remote)",
	RunE:  runInventorySales,
}

var supplierCmd = &cobra.Command{
	Use:   "supplier",
	Short: "Manage suppliers (remote)",
}

var supplierAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a supplier",
	RunE:  runSupplierAdd,
}

var supplierRemoveCmd = &cobra.Command{
	Use:   "remove [id]",
	Short: "Remove a supplier by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runSupplierRemove,
}

func init() {
	inventoryCmd.PersistentFlags().BoolVar(&useLocal, "local", false, "Use the local SQLite store instead of the remote API")

	inventoryAddCmd.Flags().StringVar(&productName, "name", "", "Product name")
	inventoryAddCmd.Flags().StringVar(&productCat, "category", "", "Product category")
	inventoryAddCmd.Flags().Float64Var(&productPrice, "price", 0, "Unit price")
	inventoryAddCmd.Flags().IntVar(&productStock, "stock", 0, "Initial stock")
	_ = inventoryAddCmd.MarkFlagRequired("name")

	inventoryLowStockCmd.Flags().IntVar(&stockLimit, "threshold", 5, "Stock threshold")

	supplierAddCmd.Flags().StringVar(&supplierName, "name", "", "Supplier name")
	supplierAddCmd.Flags().StringVar(&supplierEmail, "email", "", "Contact email")
	supplierAddCmd.Flags().StringVar(&supplierPhone, "phone", "", "Contact phone")
	_ = supplierAddCmd.MarkFlagRequired("name")

	supplierCmd.AddCommand(supplierAddCmd)
	supplierCmd.AddCommand(supplierRemoveCmd)

	inventoryCmd.AddCommand(inventoryListCmd)
	inventoryCmd.AddCommand(inventoryAddCmd)
	inventoryCmd.AddCommand(inventoryRemoveCmd)
	inventoryCmd.AddCommand(inventoryLowStockCmd)
	inventoryCmd.AddCommand(inventorySetStockCmd)
	inventoryCmd.AddCommand(inventorySalesCmd)
	inventoryCmd.AddCommand(supplierCmd)
}

func remoteClient() *inventory.Client {
	return inventory.NewClient(inventory.ClientConfig{
		BaseURL:           cfg.Inventory.BaseURL,
		ProductsEndpoint:  cfg.Inventory.ProductsEndpoint,
		SuppliersEndpoint: cfg.Inventory.SuppliersEndpoint,
		SalesEndpoint:     cfg.Inventory.SalesEndpoint,
		RequestTimeout:    cfg.InventoryRequestTimeout(),
		CacheTTL:          cfg.InventoryCacheTTL(),
		SalesCacheTTL:     cfg.InventorySalesCacheTTL(),
	}, logger)
}

func localStore() (*inventory.Store, error) {
	return inventory.OpenStore(cfg.Inventory.DatabasePath)
}

func printProducts(cmd *cobra.Command, products []inventory.Product) {
	out := cmd.OutOrStdout()
	if len(products) == 0 {
		fmt.Fprintln(out, "No products.")
		return
	}
	fmt.Fprintln(out, sectionStyle.Render("Products"))
	for _, p := range products {
		line := fmt.Sprintf("%-6s %-24s %-12s %8.2f  stock=%d", p.ID, p.Name, p.Category, p.Price, p.Stock)
		if p.Stock <= 5 {
			line = warnStyle.Render(line)
		}
		fmt.Fprintln(out, line)
	}
}

func runInventoryList(cmd *cobra.Command, args []string) error {
	if useLocal {
		store, err := localStore()
		if err != nil {
			return err
		}
		defer store.Close()

		products, err := store.Products(cmd.Context())
		if err != nil {
			return err
		}
		printProducts(cmd, products)
		return nil
	}

	snap, err := remoteClient().FetchAll(cmd.Context())
	if err != nil {
		return err
	}
	printProducts(cmd, snap.Products)

	out := cmd.OutOrStdout()
	if len(snap.Suppliers) > 0 {
		fmt.Fprintln(out, sectionStyle.Render("Suppliers"))
		for _, s := range snap.Suppliers {
			fmt.Fprintf(out, "%-6s %-24s %s\n", s.ID, s.Name, s.Email)
		}
	}
	return nil
}

func runInventoryAdd(cmd *cobra.Command, args []string) error {
	product := inventory.Product{
		Name:     productName,
		Category: productCat,
		Price:    productPrice,
		Stock:    productStock,
	}

	if useLocal {
		store, err := localStore()
		if err != nil {
			return err
		}
		defer store.Close()

		added, err := store.AddProduct(cmd.Context(), product)
		if err != nil {
			return err
		}
		logger.Info("Product added", zap.String("id", added.ID), zap.String("name", added.Name))
		fmt.Fprintf(cmd.OutOrStdout(), "Added product %s (%s)\n", added.ID, added.Name)
		return nil
	}

	created, err := remoteClient().CreateProduct(cmd.Context(), product)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added product %s (%s)\n", created.ID, created.Name)
	return nil
}

func runInventoryRemove(cmd *cobra.Command, args []string) error {
	id := args[0]

	if useLocal {
		store, err := localStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.DeleteProduct(cmd.Context(), id); err != nil {
			return err
		}
	} else if err := remoteClient().DeleteProduct(cmd.Context(), id); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed product %s\n", id)
	return nil
}

func runInventorySales(cmd *cobra.Command, args []string) error {
	sales, err := remoteClient().Sales(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(sales) == 0 {
		fmt.Fprintln(out, "No sales.")
		return nil
	}
	fmt.Fprintln(out, sectionStyle.Render("Sales"))
	var total float64
	for _, s := range sales {
		fmt.Fprintf(out, "%-8s %-24s x%-4d %8.2f  %s\n",
			s.SaleID, s.ProductName, s.Quantity, s.Total, s.Timestamp.Format("2006-01-02 15:04"))
		total += s.Total
	}
	fmt.Fprintf(out, "Total: %.2f across %d sales\n", total, len(sales))
	return nil
}

func runSupplierAdd(cmd *cobra.Command, args []string) error {
	created, err := remoteClient().CreateSupplier(cmd.Context(), inventory.Supplier{
		Name:  supplierName,
		Email: supplierEmail,
		Phone: supplierPhone,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added supplier %s (%s)\n", created.ID, created.Name)
	return nil
}

func runSupplierRemove(cmd *cobra.Command, args []string) error {
	if err := remoteClient().DeleteSupplier(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed supplier %s\n", args[0])
	return nil
}

func runInventoryLowStock(cmd *cobra.Command, args []string) error {
	store, err := localStore()
	if err != nil {
		return err
	}
	defer store.Close()

	products, err := store.LowStock(cmd.Context(), stockLimit)
	if err != nil {
		return err
	}
	printProducts(cmd, products)
	return nil
}

func runInventorySetStock(cmd *cobra.Command, args []string) error {
	stock, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("stock must be an integer: %w", err)
	}

	store, err := localStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.UpdateStock(cmd.Context(), args[0], stock); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Stock of %s set to %d\n", args[0], stock)
	return nil
}
