package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"

	cartModel "leafside-client/internal/domains/cart/model"
	identityModel "leafside-client/internal/domains/identity/model"
	orderModel "leafside-client/internal/domains/order/model"
	"leafside-client/internal/shared/utils"
	"leafside-client/pkg/container"
)

const currency = "EUR"

func dispatch(ctx context.Context, c *container.Container, command string, args []string) error {
	switch command {
	case "books":
		return listBooks(ctx, c)
	case "book":
		if len(args) < 1 {
			return fmt.Errorf("usage: book <id>")
		}
		return showBook(ctx, c, args[0])
	case "cart":
		return cartCommand(ctx, c, args)
	case "login":
		if len(args) < 2 {
			return fmt.Errorf("usage: login <email> <password>")
		}
		return login(ctx, c, args[0], args[1])
	case "register":
		if len(args) < 2 {
			return fmt.Errorf("usage: register <email> <password>")
		}
		return register(ctx, c, args[0], args[1])
	case "logout":
		return c.Identity.SignOut(ctx)
	case "profile":
		return showProfile(ctx, c)
	case "orders":
		return listOrders(ctx, c)
	case "checkout":
		return checkout(ctx, c, args)
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func cartCommand(ctx context.Context, c *container.Container, args []string) error {
	if len(args) == 0 {
		return printCart(c.Cart.Snapshot())
	}

	switch args[0] {
	case "add":
		if len(args) < 2 {
			return fmt.Errorf("usage: cart add <bookId> [qty]")
		}
		quantity := 1
		if len(args) > 2 {
			parsed, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[2])
			}
			quantity = parsed
		}
		if err := c.Cart.AddItem(ctx, args[1], quantity); err != nil {
			return err
		}
	case "set":
		if len(args) < 3 {
			return fmt.Errorf("usage: cart set <bookId> <qty>")
		}
		quantity, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid quantity %q", args[2])
		}
		if err := c.Cart.UpdateQuantity(ctx, args[1], quantity); err != nil {
			return err
		}
	case "remove":
		if len(args) < 2 {
			return fmt.Errorf("usage: cart remove <bookId>")
		}
		if err := c.Cart.RemoveItem(ctx, args[1]); err != nil {
			return err
		}
	case "clear":
		if err := c.Cart.Clear(ctx); err != nil {
			return err
		}
	case "refresh":
		if err := c.Cart.Refresh(ctx); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown cart subcommand %q", args[0])
	}

	return printCart(c.Cart.Snapshot())
}

func printCart(snap cartModel.Snapshot) error {
	fmt.Printf("Cart (%s", snap.Source)
	if snap.ID != "" {
		fmt.Printf(", id %s", snap.ID)
	}
	fmt.Println(")")

	if len(snap.Items) == 0 {
		fmt.Println("  (empty)")
		return nil
	}

	for _, line := range snap.Items {
		title := line.BookID
		if line.Book != nil {
			title = utils.Truncate(line.Book.Title, 48)
		}
		unit := line.UnitPrice()
		fmt.Printf("  %-50s x%-3d %s\n", title, line.Quantity, utils.FormatPrice(&unit, currency))
	}

	subtotal := snap.Subtotal()
	fmt.Printf("Subtotal: %s (%d items)\n", utils.FormatPrice(&subtotal, currency), snap.ItemsCount())
	return nil
}

func listBooks(ctx context.Context, c *container.Container) error {
	books, err := c.Catalog.ListBooks(ctx)
	if err != nil {
		return err
	}

	for _, book := range books {
		fmt.Printf("%-38s %-44s %-24s %s\n",
			book.ID,
			utils.Truncate(book.Title, 42),
			utils.Truncate(book.Author, 22),
			utils.FormatPrice(book.Price, currency),
		)
	}
	return nil
}

func showBook(ctx context.Context, c *container.Container, id string) error {
	book, err := c.Catalog.GetBook(ctx, id)
	if err != nil {
		return err
	}

	fmt.Printf("%s\nby %s\n\n%s\n\nGenre: %s  Price: %s  Available: %v\n",
		book.Title, book.Author, utils.Truncate(book.Description, 400),
		book.Genre, utils.FormatPrice(book.Price, currency), book.IsAvailable,
	)
	return nil
}

func login(ctx context.Context, c *container.Container, email, password string) error {
	if err := c.Identity.Login(ctx, identityModel.LoginRequest{Email: email, Password: password}); err != nil {
		return err
	}
	fmt.Println("Signed in as", email)
	return nil
}

func register(ctx context.Context, c *container.Container, email, password string) error {
	req := identityModel.RegisterRequest{Email: email, Password: password}
	if err := c.Identity.Register(ctx, req); err != nil {
		return err
	}
	fmt.Println("Registered and signed in as", email)
	return nil
}

func showProfile(ctx context.Context, c *container.Container) error {
	profile, err := c.Identity.Profile(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("%s %s <%s>\nRoles: %v\n", profile.FirstName, profile.LastName, profile.Email, profile.Roles)
	return nil
}

func listOrders(ctx context.Context, c *container.Container) error {
	orders, err := c.Orders.List(ctx)
	if err != nil {
		return err
	}

	for _, order := range orders {
		total := order.TotalAmount
		fmt.Printf("%-38s %-12s %s  %s\n",
			order.ID, order.Status,
			utils.FormatPrice(&total, currency),
			order.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	return nil
}

func checkout(ctx context.Context, c *container.Container, args []string) error {
	flags := flag.NewFlagSet("checkout", flag.ContinueOnError)
	address := flags.String("address", "", "shipping address")
	name := flags.String("name", "", "customer name")
	email := flags.String("email", "", "customer email")
	phone := flags.String("phone", "", "customer phone")
	notes := flags.String("notes", "", "order notes")
	if err := flags.Parse(args); err != nil {
		return err
	}

	snap := c.Cart.Snapshot()
	req := orderModel.FromSnapshot(snap)
	req.ShippingAddress = *address
	req.CustomerName = *name
	req.CustomerEmail = *email
	req.CustomerPhone = *phone
	req.Notes = *notes

	order, err := c.Orders.Create(ctx, req)
	if err != nil {
		return err
	}

	// The server empties its cart when the order is placed; pick the
	// authoritative state back up.
	if err := c.Cart.Refresh(ctx); err != nil {
		fmt.Println("warning: cart refresh after checkout failed:", err)
	}

	total := order.TotalAmount
	fmt.Printf("Order %s placed, total %s\n", order.ID, utils.FormatPrice(&total, currency))
	return nil
}
