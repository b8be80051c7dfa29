package agent

const greetingReply = "Hello! I'm your AI study assistant specializing in Oligopoly and Game Theory. I can help you understand market structures, the prisoner's dilemma, Nash equilibrium, collusion, and much more. What would you like to learn about?"

// capabilityReply lists the subject areas the assistant covers.
const capabilityReply = `I'm an AI tutor specialized in Oligopoly and Game Theory! I can help you with:

📚 **Market Structures**: Understanding oligopoly characteristics, concentration ratios, and barriers to entry

🎮 **Game Theory**: Prisoner's dilemma, Nash equilibrium, dominant strategies, and payoff analysis

💰 **Business Strategy**: Collusion, cartels, price leadership, and non-price competition

📊 **Economic Efficiency**: Allocative, productive, and dynamic efficiency in oligopolies

🎬 **Video Content**: I can answer questions about the embedded educational videos

Just ask me anything about these topics!`

const oligopolyExamplesReply = `**Real-World Examples of Oligopolies:**

🍎 **Smartphones**: Apple and Samsung dominate the global market
🥤 **Soft Drinks**: Coca-Cola and Pepsi control most of the beverage market
✈️ **Commercial Aircraft**: Boeing and Airbus are the main manufacturers
🏦 **Banking**: A few major banks dominate most national markets
📱 **Telecom**: Usually 3-4 major carriers per country
🚗 **Automobiles**: Toyota, Volkswagen, GM, and a few others lead globally

These industries all share oligopoly characteristics: few dominant firms, high barriers to entry, and interdependent decision-making.`

// prisonersDilemmaExampleReply walks through a two-firm pricing game.
const prisonersDilemmaExampleReply = `**Prisoner's Dilemma - Business Example:**

Imagine two competing firms (Firm A and Firm B) deciding on prices:

| | Firm B: High Price | Firm B: Low Price |
|---|---|---|
| **Firm A: High Price** | Both earn $10M | A: $2M, B: $12M |
| **Firm A: Low Price** | A: $12M, B: $2M | Both earn $5M |

**Analysis:**
• If both keep prices high → Both earn $10M (best collective outcome)
• Each firm is tempted to cut prices → Get $12M while rival gets $2M
• But if both cut prices → Both earn only $5M (Nash Equilibrium)

This shows why maintaining collusion is difficult - there's always an incentive to cheat!`

const rigidPricesReply = `**Why Prices Are Rigid in Oligopolies:**

The kinked demand curve model explains this:

📈 **If a firm RAISES price**: Rivals don't follow → firm loses many customers (elastic demand)

📉 **If a firm CUTS price**: Rivals match the cut → firm gains few customers (inelastic demand)

**Result**: There's a "kink" in the demand curve at the current price. The firm faces:
• Elastic demand above the current price
• Inelastic demand below the current price

This means neither raising nor lowering prices increases profits significantly, so prices remain stable!`

const collusionFailsReply = `**Why Collusion Often Fails:**

🎯 **The Cheating Incentive**: Each firm can increase profits by secretly cutting prices while others maintain high prices

🔍 **Detection Problems**: It's hard to know if rivals are cheating, especially with:
• Many firms in the agreement
• Differentiated products
• Fluctuating demand

⚖️ **Legal Issues**: Formal collusion (cartels) is illegal in most countries

📊 **Factors That Make Collusion Harder:**
• More firms = harder to coordinate
• Heterogeneous products = harder to compare prices
• Unstable demand = price cuts look like cheating
• No credible punishment mechanism

This is the Prisoner's Dilemma in action - individual rationality leads to collective suboptimality!`

// measureConcentrationReply works a CR4 and an HHI example.
const measureConcentrationReply = `**How to Measure Market Concentration:**

**1. Concentration Ratio (CR)**
• CR4 = Market share of top 4 firms added together
• Example: If top 4 firms have 25%, 20%, 15%, and 10% → CR4 = 70%
• CR4 > 60% typically indicates an oligopoly

**2. Herfindahl-Hirschman Index (HHI)**
• Sum of squared market shares of all firms
• Example: Firms with 30%, 30%, 20%, 20% → HHI = 900 + 900 + 400 + 400 = 2,600
• HHI > 2,500 = highly concentrated market

**Interpreting Results:**
• Higher values = more concentrated = more oligopolistic
• Lower values = more competitive market structure`

const monopolyComparisonReply = `**Oligopoly vs Monopoly:**

| Feature | Oligopoly | Monopoly |
|---------|-----------|----------|
| **Number of Firms** | Few (2-10 typically) | One |
| **Market Power** | Significant but shared | Complete |
| **Pricing** | Interdependent | Price maker |
| **Barriers to Entry** | High | Very high/absolute |
| **Competition** | Yes (strategic) | None |
| **Examples** | Smartphones, airlines | Utilities, patented drugs |

**Key Difference**: In oligopoly, firms must consider rivals' reactions. In monopoly, there are no rivals to consider.`

const perfectCompetitionComparisonReply = `**Oligopoly vs Perfect Competition:**

| Feature | Oligopoly | Perfect Competition |
|---------|-----------|---------------------|
| **Number of Firms** | Few large firms | Many small firms |
| **Market Power** | Significant | None (price takers) |
| **Products** | May be differentiated | Homogeneous |
| **Barriers to Entry** | High | None |
| **Profits (Long Run)** | Supernormal possible | Normal only |
| **Efficiency** | Allocatively inefficient | Fully efficient |

**Key Difference**: Oligopolists have market power and make strategic decisions; perfectly competitive firms simply accept market prices.`

// defaultReply suggests questions when nothing else matched.
const defaultReply = `I'd be happy to help you learn about Oligopoly and Game Theory!

Here are some topics I can explain in detail:

📚 **Market Structure Basics:**
• What is an oligopoly?
• How do we measure market concentration?
• What are barriers to entry?

🎮 **Game Theory:**
• What is the Prisoner's Dilemma?
• What is Nash Equilibrium?
• Why is collusion unstable?

💡 **Business Strategy:**
• How does price leadership work?
• Why do oligopolies have rigid prices?
• What is non-price competition?

Just ask me about any of these topics, or ask your own question!`
