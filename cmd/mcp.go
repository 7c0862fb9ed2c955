package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sjzsdu/workbench/helper"
	"github.com/sjzsdu/workbench/helper/logging"
	"github.com/sjzsdu/workbench/lang"
	"github.com/sjzsdu/workbench/mcpserver"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: lang.T("MCP Server"),
	Long:  lang.T("MCP Server for managing project files"),
	Run:   runMCP,
}

var (
	mcpTransport string
	mcpPortFlag  string
)

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().StringVar(&mcpTransport, "transport", "", "传输方式 (stdio, http, sse)，默认为 stdio")
	mcpCmd.Flags().StringVar(&mcpPortFlag, "port", "8080", "HTTP/SSE 服务器端口，默认为 8080")
}

func runMCP(cmd *cobra.Command, args []string) {
	if len(args) == 0 {
		fmt.Println("请指定操作类型:")
		fmt.Println("  server    - 启动 Workbench MCP 服务器")
		fmt.Println("  tools     - 列出服务器提供的工具")
		fmt.Println("  call      - 直接调用一个工具，例如: workbench mcp call fs_read '{\"path\":\"README.md\"}'")
		fmt.Println()
		fmt.Println("启动服务器示例:")
		fmt.Println("  workbench mcp server                    # 使用 STDIO 传输启动")
		fmt.Println("  workbench mcp server --transport http   # 使用 HTTP 传输启动")
		fmt.Println("  workbench mcp server --transport sse    # 使用 SSE 传输启动")
		fmt.Println("  workbench mcp server --port 9000        # 指定端口启动")
		cmd.Help()
		return
	}

	srv := newMCPServer(cmd)
	switch args[0] {
	case "server":
		runMCPServer(srv)
	case "tools":
		for _, name := range srv.Tools() {
			fmt.Println(name)
		}
	case "call":
		if len(args) < 2 {
			fmt.Println("请指定要调用的工具名称，可用的工具:")
			for _, name := range srv.Tools() {
				fmt.Printf("- %s\n", name)
			}
			return
		}
		callTool(cmd, srv, args[1], args[2:])
	default:
		fmt.Println("未知的操作类型: " + args[0])
		cmd.Help()
	}
}

func newMCPServer(cmd *cobra.Command) *mcpserver.Server {
	w, err := GetWorkspace(cmd.Context())
	if err != nil {
		fmt.Fprintf(os.Stderr, "创建工作区失败: %v\n", err)
		os.Exit(1)
	}
	return mcpserver.New(w, logging.Named("mcp"))
}

func callTool(cmd *cobra.Command, srv *mcpserver.Server, name string, rest []string) {
	raw := strings.Join(rest, " ")
	if raw == "" {
		prompter := helper.StdPrompter()
		ok, err := prompter.YesNo("是否要输入参数? (y/n) ", false)
		if err != nil {
			fmt.Printf("读取用户输入时出错: %v\n", err)
			return
		}
		if ok {
			if raw, err = prompter.Line("请输入JSON格式的参数: "); err != nil {
				fmt.Printf("读取用户输入时出错: %v\n", err)
				return
			}
		}
	}

	params := map[string]any{}
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &params); err != nil {
			fmt.Printf("参数不是有效的 JSON: %v\n", err)
			os.Exit(1)
		}
	}

	res, err := srv.Call(cmd.Context(), name, params)
	if err != nil {
		fmt.Printf("调用工具失败: %v\n", err)
		os.Exit(1)
	}
	for _, c := range res.Content {
		if text, ok := c.(mcp.TextContent); ok {
			fmt.Println(text.Text)
		}
	}
	if res.IsError {
		os.Exit(1)
	}
}

func runMCPServer(srv *mcpserver.Server) {
	// 使用命令行参数或环境变量
	transport := mcpTransport
	if transport == "" {
		transport = os.Getenv("MCP_TRANSPORT")
	}

	port := mcpPortFlag
	if envPort := os.Getenv("MCP_PORT"); envPort != "" {
		port = envPort
	}

	// 标准输出留给 STDIO 传输，提示信息写到标准错误
	fmt.Fprintf(os.Stderr, "启动 Workbench MCP 服务器...\n")
	fmt.Fprintf(os.Stderr, "项目路径: %s\n", sharedRoot)

	switch transport {
	case "http":
		fmt.Fprintf(os.Stderr, "使用 HTTP 传输，访问地址: http://localhost:%s\n", port)
		httpServer := server.NewStreamableHTTPServer(srv.MCPServer())
		if err := httpServer.Start(":" + port); err != nil {
			log.Fatalf("HTTP 服务器启动失败: %v", err)
		}
	case "sse":
		fmt.Fprintf(os.Stderr, "使用 SSE 传输，访问地址: http://localhost:%s\n", port)
		sseServer := server.NewSSEServer(srv.MCPServer())
		if err := sseServer.Start(":" + port); err != nil {
			log.Fatalf("SSE 服务器启动失败: %v", err)
		}
	default:
		fmt.Fprintln(os.Stderr, "使用 STDIO 传输，等待客户端连接...")
		if err := server.ServeStdio(srv.MCPServer()); err != nil {
			log.Fatalf("STDIO 服务器启动失败: %v", err)
		}
	}
}
